// Package status collects per-project git and manifest state and renders it as the fleet status table.
package status
