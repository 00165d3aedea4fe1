// Package console provides the operator-facing prompts and framed text
// sections shared by every gitfleet command.
package console
