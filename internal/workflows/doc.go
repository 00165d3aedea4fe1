// Package workflows implements the batch commands that operate on every registered project: status, checkout, merge and pull.
//
// Each mutating command runs a Session: banner, environment validation, status report, confirmation,
// input collection, a sequential per-project loop recorded in an OutcomeSet, and a final status report.
package workflows
