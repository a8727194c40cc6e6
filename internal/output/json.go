package output

import (
	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/summary"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string   `json:"status"`
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Unknown []string `json:"unknown_members,omitempty"`
}

// MembersResponse represents the member list.
type MembersResponse struct {
	Members []model.Member `json:"members"`
	Count   int            `json:"count"`
}

// MemberResponse represents a single member change.
type MemberResponse struct {
	Status string       `json:"status"`
	Member model.Member `json:"member"`
}

// RemoveResponse represents the result of removing a member.
type RemoveResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
}

// CheckInResponse represents a check-in batch.
type CheckInResponse struct {
	Status   string                 `json:"status"`
	Recorded int                    `json:"recorded"`
	Skipped  int                    `json:"skipped"`
	Results  []ledger.CheckInResult `json:"results"`
}

// NewCheckInResponse counts recorded and skipped names.
func NewCheckInResponse(results []ledger.CheckInResult) *CheckInResponse {
	resp := &CheckInResponse{Status: "ok", Results: results}
	for _, r := range results {
		if r.Recorded {
			resp.Recorded++
		} else {
			resp.Skipped++
		}
	}
	if resp.Results == nil {
		resp.Results = []ledger.CheckInResult{}
	}
	return resp
}

// RecordResponse represents a single modified record.
type RecordResponse struct {
	Status string       `json:"status"`
	Record model.Record `json:"record"`
}

// RecordsResponse represents a list of records.
type RecordsResponse struct {
	Records []model.Record `json:"records"`
	Count   int            `json:"count"`
}

// SummariesResponse represents per-member totals.
type SummariesResponse struct {
	Department model.Department        `json:"department,omitempty"`
	Until      string                  `json:"until,omitempty"`
	Members    []summary.MemberSummary `json:"members"`
}

// DepartmentsResponse represents the configured departments.
type DepartmentsResponse struct {
	Departments []model.Department `json:"departments"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string, unknown []string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
		Unknown: unknown,
	})
}

// PrintMembers outputs the roster.
func (j *JSONFormatter) PrintMembers(members []model.Member) error {
	if members == nil {
		members = []model.Member{}
	}
	return j.JSON(MembersResponse{Members: members, Count: len(members)})
}

// PrintMemberAdded outputs an added member.
func (j *JSONFormatter) PrintMemberAdded(m model.Member) error {
	return j.JSON(MemberResponse{Status: "added", Member: m})
}

// PrintMemberRemoved outputs the result of a removal.
func (j *JSONFormatter) PrintMemberRemoved(name string, removed bool) error {
	status := "removed"
	if !removed {
		status = "not_found"
	}
	return j.JSON(RemoveResponse{Status: status, Name: name, Removed: removed})
}

// PrintCheckIn outputs a check-in batch.
func (j *JSONFormatter) PrintCheckIn(results []ledger.CheckInResult) error {
	return j.JSON(NewCheckInResponse(results))
}

// PrintModified outputs a corrected record.
func (j *JSONFormatter) PrintModified(rec model.Record) error {
	return j.JSON(RecordResponse{Status: "modified", Record: rec})
}

// PrintRecords outputs records.
func (j *JSONFormatter) PrintRecords(records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	return j.JSON(RecordsResponse{Records: records, Count: len(records)})
}

// PrintMemberSummary outputs one member's totals.
func (j *JSONFormatter) PrintMemberSummary(s summary.MemberSummary) error {
	return j.JSON(s)
}

// PrintMemberSummaries outputs per-member totals.
func (j *JSONFormatter) PrintMemberSummaries(resp SummariesResponse) error {
	if resp.Members == nil {
		resp.Members = []summary.MemberSummary{}
	}
	return j.JSON(resp)
}

// PrintTotalStatistics outputs the club-wide breakdown.
func (j *JSONFormatter) PrintTotalStatistics(stats summary.TotalStatistics) error {
	return j.JSON(stats)
}

// PrintPracticeCounts outputs session headcounts.
func (j *JSONFormatter) PrintPracticeCounts(pc summary.PracticeCounts) error {
	return j.JSON(pc)
}

// PrintDepartments outputs the configured departments.
func (j *JSONFormatter) PrintDepartments(depts []model.Department) error {
	return j.JSON(DepartmentsResponse{Departments: depts})
}
