// Package errors provides standardized error types and helpers for the werset codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrParse indicates a malformed citation or query. User-correctable; never retried.
	ErrParse = errors.New("parse error")
	// ErrTransport indicates the provider could not be reached or kept refusing.
	ErrTransport = errors.New("transport error")
	// ErrNoResults indicates a well-formed request that yielded no valid hits.
	ErrNoResults = errors.New("no results")
	// ErrUnknownTranslation indicates a translation code outside the supported set.
	ErrUnknownTranslation = errors.New("unknown translation")
)

// ParseError represents a malformed citation or query with context.
type ParseError struct {
	Input   string // Raw input that failed to parse
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Message)
	}
	return fmt.Sprintf("cannot parse input: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrParse
}

// TransportError represents an exhausted or permanently failed fetch.
// Status carries the last HTTP status observed (0 if no response was received).
type TransportError struct {
	URL    string // Last URL attempted (may be redacted in user-facing output)
	Status int    // Last observed HTTP status
	Err    error  // Underlying error, if any
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider request failed (status %d)", e.Status)
	}
	return "provider request failed"
}

func (e *TransportError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrTransport
}

// NoResultsError represents a reachable provider whose responses yielded
// zero valid hits. Sample holds a truncated raw payload for operator
// diagnostics; it must not be shown to end users.
type NoResultsError struct {
	Status int    // Last HTTP status observed
	Sample string // Truncated body sample for diagnostics
	Err    error  // Underlying error, if any
}

func (e *NoResultsError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("no results (last status %d)", e.Status)
	}
	return "no results"
}

func (e *NoResultsError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNoResults
}

// UnknownTranslationError represents a translation code outside the supported set.
type UnknownTranslationError struct {
	Code string // The unsupported code as given
}

func (e *UnknownTranslationError) Error() string {
	return fmt.Sprintf("unknown translation: %s", e.Code)
}

func (e *UnknownTranslationError) Unwrap() error {
	return ErrUnknownTranslation
}

// Helper functions for creating common errors

// NewParse creates a ParseError
func NewParse(input, message string) *ParseError {
	return &ParseError{
		Input:   input,
		Message: message,
	}
}

// NewTransport creates a TransportError
func NewTransport(url string, status int) *TransportError {
	return &TransportError{
		URL:    url,
		Status: status,
	}
}

// NewNoResults creates a NoResultsError
func NewNoResults(status int, sample string) *NoResultsError {
	return &NoResultsError{
		Status: status,
		Sample: sample,
	}
}

// NewUnknownTranslation creates an UnknownTranslationError
func NewUnknownTranslation(code string) *UnknownTranslationError {
	return &UnknownTranslationError{Code: code}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
