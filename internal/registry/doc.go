// Package registry owns the operator-maintained list of project checkouts.
//
// It resolves project identifiers against the configured root directory,
// validates that git and every registered checkout are usable before a batch
// starts, and exposes the find-projects command that proposes a project list
// by walking the root.
package registry
