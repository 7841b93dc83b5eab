// Package dispatch wires generator loading, option parsing, command
// resolution and command execution into a single Run operation.
//
// Run is a straight-line sequence of four steps. Each step gates the next,
// and no failure is recovered: the first error stops the run and is returned
// to the caller wrapped in an *Error that records which step produced it.
// The wrapped error keeps its message and identity, so callers can still
// match it with errors.Is and errors.As.
package dispatch
