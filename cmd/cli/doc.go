// Package cli constructs the gitfleet command-line interface, wiring the
// Cobra command hierarchy, the Viper configuration loader with embedded
// defaults, and zap logging into the status, checkout, merge, pull,
// find-projects and enable-common-config commands.
package cli
