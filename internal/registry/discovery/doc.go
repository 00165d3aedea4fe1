// Package discovery walks directory trees to find git checkouts for the
// find-projects command.
package discovery
