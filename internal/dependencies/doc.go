// Package dependencies resolves default collaborators for command builders
// when tests or callers do not inject their own.
package dependencies
