// Package ui narrates git activity for people watching a batch run.
//
// GitActivityLogger turns execshell events into short sentences tagged with the
// project name, while full detail continues to flow through the diagnostic logger.
package ui
