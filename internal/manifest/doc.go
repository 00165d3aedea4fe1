// Package manifest locates Maven pom.xml files beneath a project, reads their
// version metadata, and rewrites version tokens when a branch is merged.
package manifest
