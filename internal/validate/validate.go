// Package validate provides input validation helpers for the rollcall ledger.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/model"
)

const (
	// MaxNameLength is the maximum length for a member name, in characters.
	MaxNameLength = 64
	// MaxNoteLength is the maximum length for a record note, in characters.
	MaxNoteLength = 1024
)

// MemberName validates a member name. Names are case-sensitive keys; commas
// and whitespace are rejected because the member store is `name,department`
// lines and check-in input is split on commas and whitespace.
func MemberName(name string) error {
	if name == "" {
		return errors.NewUserError(errors.ErrInvalidName,
			"Member name cannot be empty",
			"Provide a member name")
	}
	if !utf8.ValidString(name) {
		return errors.NewUserError(errors.ErrInvalidName,
			"Member name is not valid UTF-8",
			"Check the terminal encoding and retype the name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField(errors.ErrInvalidName, "name", name,
			"Member name too long",
			fmt.Sprintf("Member names must be %d characters or fewer", MaxNameLength))
	}
	for _, r := range name {
		if r == ',' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return errors.NewUserErrorWithField(errors.ErrInvalidName, "name", name,
				"Member name contains a comma, space or control character",
				"Use a single word such as 'Alice' or 'Kim_Minji'")
		}
	}
	return nil
}

// Date validates a YYYY-MM-DD calendar date. The string must already be in
// canonical zero-padded form.
func Date(date string) error {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil || t.Format(model.DateLayout) != date {
		return errors.NewUserErrorWithField(errors.ErrInvalidDate, "date", date,
			"Invalid date",
			"Use the YYYY-MM-DD format, e.g. 2024-03-01")
	}
	return nil
}

// DateRange validates optional inclusive bounds. Empty bounds are open.
func DateRange(start, end string) error {
	if start != "" {
		if err := Date(start); err != nil {
			return err
		}
	}
	if end != "" {
		if err := Date(end); err != nil {
			return err
		}
	}
	if start != "" && end != "" && start > end {
		return errors.NewUserErrorWithField(errors.ErrInvalidDate, "range", start+".."+end,
			"Start date is after end date",
			"Swap the bounds or pick an earlier start date")
	}
	return nil
}

// Note validates a record note.
func Note(note string) error {
	if !utf8.ValidString(note) {
		return errors.NewUserError(errors.ErrInvalidNote,
			"Note is not valid UTF-8",
			"Check the terminal encoding and retype the note")
	}
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return errors.NewUserError(errors.ErrInvalidNote,
			"Note too long",
			fmt.Sprintf("Notes must be %d characters or fewer", MaxNoteLength))
	}
	return nil
}

// SanitizeNote cleans a note for safe storage.
func SanitizeNote(note string) string {
	note = strings.TrimSpace(note)
	note = strings.ReplaceAll(note, "\x00", "")
	note = strings.ReplaceAll(note, "\r\n", "\n")
	note = strings.ReplaceAll(note, "\r", "\n")
	return note
}
