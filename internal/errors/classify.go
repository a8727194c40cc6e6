package errors

import (
	"errors"
	"syscall"
)

// Category represents the type of error for display and exit code purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, unknown member).
	CategoryUser
	// CategorySystem indicates a storage or environment failure.
	CategorySystem
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) || isLedgerSentinel(err) {
		return CategoryUser
	}
	if IsStorageError(err) || isSystemLevel(err) {
		return CategorySystem
	}

	return CategoryUnknown
}

// isLedgerSentinel reports whether err wraps one of the domain sentinels
// without going through a UserError (e.g. an UnknownMembersError).
func isLedgerSentinel(err error) bool {
	for _, s := range []error{
		ErrInvalidDepartment, ErrDuplicateMember, ErrUnknownMembers,
		ErrEmptyInput, ErrRecordNotFound, ErrUnknownMember, ErrNoRecords,
		ErrInvalidStatus, ErrInvalidDate, ErrInvalidName, ErrInvalidNote,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrLockHeld) ||
		errors.Is(err, ErrStorageUnavailable)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch Classify(err) {
	case CategoryUser:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
		return msg

	case CategorySystem:
		if suggestion != "" {
			return "System error: " + msg + "\n\n" + suggestion
		}
		return "System error: " + msg

	default:
		return msg
	}
}
