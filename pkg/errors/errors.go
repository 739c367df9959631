// Package errors provides custom error types for the docsync system.
// These errors enable programmatic error checking and carry enough
// context (composite keys, row numbers, column names, HTTP status) for
// actionable diagnostics.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the docsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates two records collapsed onto one composite key
	ErrDuplicateKey = errors.New("duplicate composite key")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API token is required but not provided
	ErrAPIKeyRequired = errors.New("API token required")

	// ErrRateLimited indicates that the remote API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupportedKind indicates a property kind outside the supported set
	ErrUnsupportedKind = errors.New("unsupported property kind")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// Side identifies which record set a duplicate key was detected in.
type Side string

// Sides where duplicate composite keys can occur.
const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// DuplicateKeyError reports two records sharing one composite key.
// Duplicate identity is fatal: the run must abort before any write,
// since create/update classification cannot be trusted.
type DuplicateKeyError struct {
	Side Side
	Key  string
	Row  int // 1-based data row of the second occurrence; 0 when unknown (remote side)
}

// Error implements the error interface
func (e *DuplicateKeyError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("duplicate %s composite key %q at row %d", e.Side, e.Key, e.Row)
	}
	return fmt.Sprintf("duplicate %s composite key %q", e.Side, e.Key)
}

// Is implements errors.Is support
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// NewDuplicateKeyError creates a new DuplicateKeyError
func NewDuplicateKeyError(side Side, key string, row int) *DuplicateKeyError {
	return &DuplicateKeyError{Side: side, Key: key, Row: row}
}

// MissingColumnError reports a key-spec column absent from a record.
type MissingColumnError struct {
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("key column %q missing from record", e.Column)
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedKindError reports a property kind outside the supported
// set. It is field-scoped: callers skip the field and continue with
// the rest of the record.
type UnsupportedKindError struct {
	Kind   string
	Column string
}

// Error implements the error interface
func (e *UnsupportedKindError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("unsupported property kind %q for column %q", e.Kind, e.Column)
	}
	return fmt.Sprintf("unsupported property kind %q", e.Kind)
}

// Is implements errors.Is support
func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// APIError represents an error response from the remote service
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	RetryAfter float64 // seconds suggested by the server; 0 when absent
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	return false
}

// FetchError represents a failed remote collection fetch. Fetch errors
// are fatal for the whole run: key uniqueness cannot be verified over
// an incomplete record set, so no partial result is usable.
type FetchError struct {
	Collection string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch collection %s: %v", e.Collection, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// WriteError represents a per-record write failure. Write errors are
// record-scoped: the batch continues, and the run's exit status
// reflects that at least one record failed.
type WriteError struct {
	Operation string // "create" or "update"
	Key       string // composite key of the failed record
	Err       error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s record %q: %v", e.Operation, e.Key, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsDuplicateKey checks if an error is a duplicate composite key error
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnsupportedKind checks if an error is an unsupported property kind error
func IsUnsupportedKind(err error) bool {
	return errors.Is(err, ErrUnsupportedKind)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
