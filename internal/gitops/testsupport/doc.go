// Package testsupport provides a scripted git executor for exercising
// adapters and workflows without a git binary.
package testsupport
