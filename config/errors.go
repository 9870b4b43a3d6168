package config

import "fmt"

// ParseError signals that the configuration file exists but is not
// well-formed TOML.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse configuration file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError signals that the configuration is well-formed but a field
// violates its invariant. Validation stops at the first failing rule.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// IOError signals a failure to create, read, or replace the configuration
// file or one of the directories it requires.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *IOError) Unwrap() error {
	return e.Err
}
