package errors

import "errors"

// Suggestions maps ledger errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrInvalidDepartment: "Use 'rollcall departments' to see the configured departments.",
	ErrDuplicateMember:   "Use 'rollcall member' to see who is already registered.",
	ErrUnknownMembers:    "Register new members first with 'rollcall member add NAME DEPARTMENT'.",
	ErrEmptyInput:        "Pass one or more names separated by commas or spaces.",
	ErrRecordNotFound:    "Use 'rollcall records --date DATE' to see what was recorded that day.",
	ErrUnknownMember:     "Use 'rollcall member' to see registered members.",
	ErrNoRecords:         "Record attendance with 'rollcall checkin NAMES...' first.",
	ErrInvalidStatus:     "Status must be one of: present, late, absent.",
	ErrInvalidDate:       "Use YYYY-MM-DD, or phrases like 'today', 'yesterday', 'last friday'.",
	ErrInvalidName:       "Names must be non-empty, at most 64 characters, with no commas or spaces.",
	ErrInvalidNote:       "Keep notes under 1024 characters.",

	// System errors
	ErrDiskFull:           "Free up disk space and try again. Nothing was written.",
	ErrLockHeld:           "Another rollcall command is running. Wait for it to finish or remove a stale lock.",
	ErrStorageUnavailable: "Check that the data directory exists and is readable (see --data-dir).",
}

// GetSuggestion returns a suggestion for an error, if available.
// A suggestion carried by a UserError wins over the generic map entry.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	// Disk full is more specific than storage unavailable, check it first.
	if errors.Is(err, ErrDiskFull) {
		return Suggestions[ErrDiskFull]
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}
