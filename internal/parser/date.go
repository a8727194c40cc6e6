// Package parser turns loose command-line input into the canonical values
// the ledger accepts: YYYY-MM-DD dates and lists of member names.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/manav03panchal/rollcall/internal/model"
)

// isoLike matches numeric dates, padded or not. These never go through
// natural-language parsing so that 2024-13-01 is an error instead of a guess.
var isoLike = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// ParseDate normalizes input to YYYY-MM-DD relative to now. It accepts ISO
// dates, "today", and anything go-dateparser understands ("yesterday",
// "last friday", "2 weeks ago", "March 1 2024").
func ParseDate(field, input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", NewDateError(field, input)
	}

	switch strings.ToLower(input) {
	case "today", "now":
		return now.Format(model.DateLayout), nil
	}

	if isoLike.MatchString(input) {
		t, err := time.Parse("2006-1-2", input)
		if err != nil {
			return "", NewDateError(field, input)
		}
		return t.Format(model.DateLayout), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return "", NewDateError(field, input)
	}

	return result.Time.Format(model.DateLayout), nil
}

// ParseOptionalDate is ParseDate for optional flags: empty input stays empty.
func ParseOptionalDate(field, input string, now time.Time) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	return ParseDate(field, input, now)
}
