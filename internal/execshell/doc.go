// Package execshell runs git as a child process.
//
// ShellExecutor logs every invocation at debug level and turns non-zero exits
// into CommandFailedError. Observers receive lifecycle events, and
// CommandMessageFormatter describes git calls in plain sentences for them.
package execshell
