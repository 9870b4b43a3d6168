package ftpd

import "fmt"

// BindError signals that the listener could not be bound to the requested
// address and port. It aborts startup before any worker is spawned.
type BindError struct {
	Addr string
	Err  error
}

// Error implements the error interface
func (e *BindError) Error() string {
	return fmt.Sprintf("cannot bind %s: %v", e.Addr, e.Err)
}

// Unwrap returns the underlying listen error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// RuntimeFailure signals that the worker running the protocol engine's
// serve loop terminated unexpectedly. It is caught at the goroutine
// boundary, recorded, and surfaced through Run and LastFailure; it never
// crashes the supervising caller.
type RuntimeFailure struct {
	Err error
}

// Error implements the error interface
func (e *RuntimeFailure) Error() string {
	return fmt.Sprintf("ftp server terminated unexpectedly: %v", e.Err)
}

// Unwrap returns the worker's error.
func (e *RuntimeFailure) Unwrap() error {
	return e.Err
}
