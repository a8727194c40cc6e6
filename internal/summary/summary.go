// Package summary derives attendance statistics from a snapshot of the roster
// and the attendance records. Everything here is a pure function of its input.
package summary

import (
	"fmt"
	"sort"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/validate"
)

// Snapshot is the input to every summary: the current roster and all records.
type Snapshot struct {
	Roster  *ledger.Roster
	Records []model.Record
}

// StatusCounts counts records by status.
type StatusCounts struct {
	Present int     `json:"present"`
	Late    int     `json:"late"`
	Absent  int     `json:"absent"`
	Total   int     `json:"total"`
	Rate    float64 `json:"attendance_rate"`
}

// Add counts one record with status s.
func (c *StatusCounts) Add(s model.Status) {
	switch s {
	case model.StatusPresent:
		c.Present++
	case model.StatusLate:
		c.Late++
	case model.StatusAbsent:
		c.Absent++
	default:
		return
	}
	c.Total++
	c.Rate = Rate(c.Present, c.Total)
}

// Count returns the count for status s.
func (c StatusCounts) Count(s model.Status) int {
	switch s {
	case model.StatusPresent:
		return c.Present
	case model.StatusLate:
		return c.Late
	case model.StatusAbsent:
		return c.Absent
	}
	return 0
}

// Rate returns present/total as a percentage, or 0 when total is 0.
func Rate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

// MemberSummary is one member's attendance totals.
type MemberSummary struct {
	Name       string           `json:"name"`
	Department model.Department `json:"department"`
	StatusCounts
}

// DepartmentCounts is the status breakdown for one department.
type DepartmentCounts struct {
	Department model.Department `json:"department"`
	StatusCounts
}

// DateCounts is the status breakdown for one date.
type DateCounts struct {
	Date string `json:"date"`
	StatusCounts
}

// TotalStatistics is the club-wide breakdown.
type TotalStatistics struct {
	Overall      StatusCounts       `json:"overall"`
	ByDepartment []DepartmentCounts `json:"by_department"`
	ByDate       []DateCounts       `json:"by_date"`
}

// Headcount is the number of records for one date, regardless of status.
type Headcount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DepartmentHeadcount is the headcount for one (date, department) pair.
type DepartmentHeadcount struct {
	Date       string           `json:"date"`
	Department model.Department `json:"department"`
	Count      int              `json:"count"`
}

// PracticeCounts holds session headcounts over a date range.
type PracticeCounts struct {
	Daily        []Headcount           `json:"daily"`
	ByDepartment []DepartmentHeadcount `json:"by_department"`
}

// Engine computes summaries against a fixed department set.
type Engine struct {
	departments model.Departments
}

// NewEngine creates an engine for departments.
func NewEngine(departments model.Departments) *Engine {
	return &Engine{departments: departments}
}

// MemberSummary returns the totals for one registered member.
func (e *Engine) MemberSummary(snap Snapshot, name string) (MemberSummary, error) {
	member, ok := snap.Roster.Lookup(name)
	if !ok {
		return MemberSummary{}, errors.NewUserErrorWithField(errors.ErrUnknownMember,
			"name", name,
			"Member not found",
			"")
	}

	s := MemberSummary{Name: member.Name, Department: member.Department}
	for _, r := range snap.Records {
		if r.Name == name {
			s.Add(r.Status)
		}
	}
	if s.Total == 0 {
		return MemberSummary{}, noRecords(fmt.Sprintf("No attendance records for %s", name))
	}
	return s, nil
}

// DepartmentSummary returns one summary per member currently in dept who has
// at least one record, in roster order. Records are grouped by member, so a
// member's older records count here even if they were taken in another
// department.
func (e *Engine) DepartmentSummary(snap Snapshot, dept model.Department) ([]MemberSummary, error) {
	if err := e.departments.Validate(dept); err != nil {
		return nil, err
	}

	byName := countByName(snap.Records, func(model.Record) bool { return true })
	var out []MemberSummary
	for _, m := range snap.Roster.InDepartment(dept) {
		if c, ok := byName[m.Name]; ok {
			out = append(out, MemberSummary{Name: m.Name, Department: m.Department, StatusCounts: *c})
		}
	}
	if len(out) == 0 {
		return nil, noRecords(fmt.Sprintf("No attendance records for %s", dept))
	}
	return out, nil
}

// TotalStatistics breaks every record down overall, by department snapshot
// and by date. Every configured department is listed, even with no records.
func (e *Engine) TotalStatistics(snap Snapshot) (TotalStatistics, error) {
	if len(snap.Records) == 0 {
		return TotalStatistics{}, noRecords("No attendance records yet")
	}

	var stats TotalStatistics
	depts := e.departments.List()
	deptIndex := make(map[model.Department]int, len(depts))
	stats.ByDepartment = make([]DepartmentCounts, len(depts))
	for i, d := range depts {
		deptIndex[d] = i
		stats.ByDepartment[i].Department = d
	}

	dates := make(map[string]*StatusCounts)
	for _, r := range snap.Records {
		stats.Overall.Add(r.Status)
		if i, ok := deptIndex[r.Department]; ok {
			stats.ByDepartment[i].Add(r.Status)
		}
		c, ok := dates[r.Date]
		if !ok {
			c = &StatusCounts{}
			dates[r.Date] = c
		}
		c.Add(r.Status)
	}

	for _, date := range sortedKeys(dates) {
		stats.ByDate = append(stats.ByDate, DateCounts{Date: date, StatusCounts: *dates[date]})
	}
	return stats, nil
}

// PracticeCounts returns headcounts per date and per (date, department) for
// records within [start, end]. Every status counts toward headcount. Empty
// bounds are open.
func (e *Engine) PracticeCounts(snap Snapshot, start, end string) (PracticeCounts, error) {
	if err := validate.DateRange(start, end); err != nil {
		return PracticeCounts{}, err
	}

	daily := make(map[string]int)
	type dateDept struct {
		date string
		dept model.Department
	}
	byDept := make(map[dateDept]int)
	for _, r := range snap.Records {
		if !r.InRange(start, end) {
			continue
		}
		daily[r.Date]++
		byDept[dateDept{r.Date, r.Department}]++
	}

	out := PracticeCounts{
		Daily:        make([]Headcount, 0, len(daily)),
		ByDepartment: make([]DepartmentHeadcount, 0, len(byDept)),
	}
	for _, date := range sortedKeys(daily) {
		out.Daily = append(out.Daily, Headcount{Date: date, Count: daily[date]})
	}
	for k, n := range byDept {
		out.ByDepartment = append(out.ByDepartment, DepartmentHeadcount{Date: k.date, Department: k.dept, Count: n})
	}
	sort.Slice(out.ByDepartment, func(i, j int) bool {
		a, b := out.ByDepartment[i], out.ByDepartment[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Department < b.Department
	})
	return out, nil
}

// CumulativeUntil returns per-member totals over records dated on or before
// until, in roster order. A non-empty dept restricts the result to members
// currently in it. Members with no matching records are omitted.
func (e *Engine) CumulativeUntil(snap Snapshot, until string, dept model.Department) ([]MemberSummary, error) {
	if err := validate.Date(until); err != nil {
		return nil, err
	}

	members := snap.Roster.Members()
	if dept != "" {
		if err := e.departments.Validate(dept); err != nil {
			return nil, err
		}
		members = snap.Roster.InDepartment(dept)
	}

	byName := countByName(snap.Records, func(r model.Record) bool { return r.Date <= until })
	out := make([]MemberSummary, 0, len(members))
	for _, m := range members {
		if c, ok := byName[m.Name]; ok {
			out = append(out, MemberSummary{Name: m.Name, Department: m.Department, StatusCounts: *c})
		}
	}
	return out, nil
}

func countByName(records []model.Record, keep func(model.Record) bool) map[string]*StatusCounts {
	out := make(map[string]*StatusCounts)
	for _, r := range records {
		if !keep(r) {
			continue
		}
		c, ok := out[r.Name]
		if !ok {
			c = &StatusCounts{}
			out[r.Name] = c
		}
		c.Add(r.Status)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func noRecords(message string) error {
	return errors.NewUserError(errors.ErrNoRecords, message, "")
}
