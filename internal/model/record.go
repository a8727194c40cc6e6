package model

// Record is one (date, member) attendance observation.
// Department is a snapshot taken at check-in and is not kept in sync with the
// registry afterwards.
type Record struct {
	Date       string     `json:"date"`
	Name       string     `json:"name"`
	Department Department `json:"department"`
	Status     Status     `json:"status"`
	Note       string     `json:"note,omitempty"`
}

// Matches reports whether the record is for the given date and member.
func (r Record) Matches(date, name string) bool {
	return r.Date == date && r.Name == name
}

// InRange reports whether the record date lies within [start, end]. An empty
// bound is open.
func (r Record) InRange(start, end string) bool {
	if start != "" && r.Date < start {
		return false
	}
	if end != "" && r.Date > end {
		return false
	}
	return true
}
