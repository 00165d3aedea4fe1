package console

import (
	"fmt"
	"io"
	"strings"
)

// SectionSeparator frames banners and report sections.
const SectionSeparator = "-----------------"

const (
	bannerTemplateConstant           = "%s\n%s\n%s\n"
	writeOutputErrorTemplateConstant = "unable to write console output: %w"
)

// Write formats to the operator-facing writer and wraps any write failure.
func Write(writer io.Writer, format string, arguments ...any) error {
	if _, writeError := fmt.Fprintf(writer, format, arguments...); writeError != nil {
		return fmt.Errorf(writeOutputErrorTemplateConstant, writeError)
	}
	return nil
}

// PrintBanner writes the title framed by separators.
func PrintBanner(writer io.Writer, title string) error {
	return Write(writer, bannerTemplateConstant, SectionSeparator, title, SectionSeparator)
}

// PrintSection writes a framed heading followed by one line per entry. Empty sections are omitted.
func PrintSection(writer io.Writer, heading string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}
	if bannerError := PrintBanner(writer, heading); bannerError != nil {
		return bannerError
	}
	return Write(writer, "%s\n", strings.Join(entries, "\n"))
}
