// Package model defines the domain models for the rollcall ledger.
package model

// KeyPrefix constants for keyed backends. Keys are the prefix, a colon and a
// zero-padded sequence number so sorted iteration yields insertion order.
const (
	PrefixMember = "member"
	PrefixRecord = "record"
)

// DateLayout is the only accepted date format. Dates are compared as strings,
// which is correct only because the layout is zero-padded and big-endian.
const DateLayout = "2006-01-02"
