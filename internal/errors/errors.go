// Package errors provides consistent error types for the rollcall ledger.
// It defines two main categories: UserError (fixable by the caller) and
// StorageError (the backing store could not be read or written).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Ledger sentinel errors. Every domain failure wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrInvalidDepartment = errors.New("invalid department")
	ErrDuplicateMember   = errors.New("duplicate member")
	ErrUnknownMembers    = errors.New("unknown members")
	ErrEmptyInput        = errors.New("empty input")
	ErrRecordNotFound    = errors.New("record not found")
	ErrUnknownMember     = errors.New("unknown member")
	ErrNoRecords         = errors.New("no records")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidName       = errors.New("invalid member name")
	ErrInvalidNote       = errors.New("invalid note")
)

// System sentinel errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDiskFull           = errors.New("disk full")
	ErrLockHeld           = errors.New("data directory locked by another process")
)

// UserError represents an error that the caller can fix.
// Examples: unknown department, duplicate member, malformed date.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
	Kind       error  // The sentinel this error belongs to
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Kind
}

// NewUserError creates a new UserError of the given kind.
func NewUserError(kind error, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
		Kind:       kind,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(kind error, field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
		Kind:       kind,
	}
}

// UnknownMembersError reports the names of a check-in batch that are not
// registered. The whole batch is rejected when this is returned.
type UnknownMembersError struct {
	Names []string
}

func (e *UnknownMembersError) Error() string {
	return fmt.Sprintf("not in the member list: %s", strings.Join(e.Names, ", "))
}

func (e *UnknownMembersError) Unwrap() error {
	return ErrUnknownMembers
}

// StorageError represents a failure of the backing store. It matches both
// ErrStorageUnavailable and the underlying cause.
type StorageError struct {
	Op   string // The operation that failed (e.g. "read members")
	Path string // The store location, if known
	Err  error  // The underlying error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage unavailable during %s (%s): %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// NewStorageError wraps err as a StorageError. A nil err yields nil, and an
// err that already is a StorageError is returned unchanged.
func NewStorageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsStorageError checks if an error is a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsUnknownMembers extracts an UnknownMembersError from an error chain.
func AsUnknownMembers(err error) (*UnknownMembersError, bool) {
	var ue *UnknownMembersError
	ok := errors.As(err, &ue)
	return ue, ok
}

// Is is re-exported from the standard errors package for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is re-exported from the standard errors package for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
