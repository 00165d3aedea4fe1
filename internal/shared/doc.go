// Package shared declares the collaborator interfaces and defaults reused by
// the registry, git, manifest, status, and workflow packages.
package shared
