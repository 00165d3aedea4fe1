package manifest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/temirov/gitfleet/internal/shared"
)

const (
	inheritedVersionTemplateConstant = "%s (p)"
	parseErrorTemplateConstant       = "unable to parse %s: %v"
)

// Record is the version metadata of one manifest.
type Record struct {
	Path       string
	ArtifactID string
	Version    string
	Inherited  bool
}

// HasVersion reports whether the manifest declares or inherits a version.
func (record Record) HasVersion() bool {
	return len(record.Version) > 0
}

// DisplayVersion renders the version, marking inherited ones with "(p)".
func (record Record) DisplayVersion() string {
	if !record.HasVersion() {
		return shared.NotAvailableValueConstant
	}
	if record.Inherited {
		return fmt.Sprintf(inheritedVersionTemplateConstant, record.Version)
	}
	return record.Version
}

// ParseError reports a manifest that could not be decoded.
type ParseError struct {
	Path  string
	Cause error
}

// Error describes the parse failure.
func (parseError ParseError) Error() string {
	return fmt.Sprintf(parseErrorTemplateConstant, parseError.Path, parseError.Cause)
}

// Unwrap exposes the decoder error.
func (parseError ParseError) Unwrap() error {
	return parseError.Cause
}

// Element names carry no namespace so the Maven POM namespace, or none, matches.
type projectDocument struct {
	ArtifactID string          `xml:"artifactId"`
	Version    string          `xml:"version"`
	Parent     *parentDocument `xml:"parent"`
}

type parentDocument struct {
	Version string `xml:"version"`
}

// Parse decodes manifest contents. The project version wins over the parent version.
// Prologs declaring a non UTF-8 encoding such as ISO-8859-1 are transcoded while decoding.
func Parse(path string, contents []byte) (Record, error) {
	document := projectDocument{}
	decoder := xml.NewDecoder(bytes.NewReader(contents))
	decoder.CharsetReader = charset.NewReaderLabel
	if decodeError := decoder.Decode(&document); decodeError != nil {
		return Record{}, ParseError{Path: path, Cause: decodeError}
	}

	record := Record{
		Path:       path,
		ArtifactID: strings.TrimSpace(document.ArtifactID),
		Version:    strings.TrimSpace(document.Version),
	}
	if !record.HasVersion() && document.Parent != nil {
		record.Version = strings.TrimSpace(document.Parent.Version)
		record.Inherited = record.HasVersion()
	}
	return record, nil
}
