package model

import (
	"strings"

	"github.com/manav03panchal/rollcall/internal/errors"
)

// Status classifies a single attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{StatusPresent, StatusLate, StatusAbsent}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// Validate returns an ErrInvalidStatus user error if s is not a known status.
func (s Status) Validate() error {
	if s.Valid() {
		return nil
	}
	return errors.NewUserErrorWithField(errors.ErrInvalidStatus,
		"status", string(s),
		"Invalid attendance status",
		"Status must be one of: present, late, absent")
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(input string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(input)))
	if !s.Valid() {
		return "", Status(input).Validate()
	}
	return s, nil
}
