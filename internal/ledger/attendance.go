package ledger

import (
	"fmt"
	"sync"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/parser"
	"github.com/manav03panchal/rollcall/internal/storage"
	"github.com/manav03panchal/rollcall/internal/validate"
)

// CheckIn is one check-in request.
type CheckIn struct {
	// Names is raw text; names are separated by commas and/or whitespace.
	Names  string
	Status model.Status
	Date   string
	Note   string
}

// CheckInResult is the outcome for one distinct name in a batch.
type CheckInResult struct {
	Name       string           `json:"name"`
	Department model.Department `json:"department"`
	Recorded   bool             `json:"recorded"`
	Message    string           `json:"message"`
}

// Store is the attendance store. Records are validated against the registry
// at write time only.
type Store struct {
	mu       sync.Mutex
	records  storage.RecordStore
	registry *Registry
}

// NewStore creates an attendance store over records.
func NewStore(records storage.RecordStore, registry *Registry) *Store {
	return &Store{records: records, registry: registry}
}

// CheckIn records attendance for every name in req. Name existence is checked
// for the whole batch first: if any name is unknown nothing is written. Names
// already recorded for the date are reported and skipped.
func (s *Store) CheckIn(req CheckIn) ([]CheckInResult, error) {
	names := dedupe(parser.ParseNames(req.Names))
	if len(names) == 0 {
		return nil, errors.NewUserError(errors.ErrEmptyInput,
			"No member names given",
			"Separate names with commas or spaces, e.g. 'Alice, Bob'")
	}
	if err := req.Status.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Date(req.Date); err != nil {
		return nil, err
	}
	note := validate.SanitizeNote(req.Note)
	if err := validate.Note(note); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roster, err := s.registry.List()
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, name := range names {
		if !roster.Contains(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, &errors.UnknownMembersError{Names: unknown}
	}

	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, err
	}

	results := make([]CheckInResult, 0, len(names))
	added := 0
	for _, name := range names {
		member, _ := roster.Lookup(name)
		if indexOf(records, req.Date, name) >= 0 {
			results = append(results, CheckInResult{
				Name:       name,
				Department: member.Department,
				Message:    fmt.Sprintf("%s is already recorded for %s", name, req.Date),
			})
			continue
		}
		records = append(records, model.Record{
			Date:       req.Date,
			Name:       name,
			Department: member.Department,
			Status:     req.Status,
			Note:       note,
		})
		added++
		results = append(results, CheckInResult{
			Name:       name,
			Department: member.Department,
			Recorded:   true,
			Message:    fmt.Sprintf("%s recorded as %s for %s", name, req.Status, req.Date),
		})
	}

	if added > 0 {
		if err := s.records.ReplaceRecords(records); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// ModifyStatus changes the status of the record for (date, name). A
// hand-edited store may hold the pair more than once; every copy is updated.
func (s *Store) ModifyStatus(date, name string, status model.Status) (model.Record, error) {
	if err := status.Validate(); err != nil {
		return model.Record{}, err
	}
	if err := validate.Date(date); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.records.LoadRecords()
	if err != nil {
		return model.Record{}, err
	}
	first, matched := -1, 0
	for i := range records {
		if !records[i].Matches(date, name) {
			continue
		}
		if first < 0 {
			first = i
		}
		records[i].Status = status
		matched++
	}
	if first < 0 {
		return model.Record{}, errors.NewUserError(errors.ErrRecordNotFound,
			fmt.Sprintf("No attendance record for %s on %s", name, date),
			"")
	}
	if matched > 1 {
		logging.Warn("duplicate attendance rows updated",
			logging.KeyMember, name, logging.KeyDate, date, logging.KeyCount, matched)
	}

	if err := s.records.ReplaceRecords(records); err != nil {
		return model.Record{}, err
	}
	return records[first], nil
}

// All returns every record in insertion order.
func (s *Store) All() ([]model.Record, error) {
	return s.records.LoadRecords()
}

// ForDate returns the records for date. An empty date returns every record.
func (s *Store) ForDate(date string) ([]model.Record, error) {
	if date == "" {
		return s.All()
	}
	if err := validate.Date(date); err != nil {
		return nil, err
	}
	return s.filter(func(r model.Record) bool { return r.Date == date })
}

// InRange returns the records dated within [start, end]. Empty bounds are open.
func (s *Store) InRange(start, end string) ([]model.Record, error) {
	if err := validate.DateRange(start, end); err != nil {
		return nil, err
	}
	return s.filter(func(r model.Record) bool { return r.InRange(start, end) })
}

func (s *Store) filter(keep func(model.Record) bool) ([]model.Record, error) {
	records, err := s.records.LoadRecords()
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func indexOf(records []model.Record, date, name string) int {
	for i, r := range records {
		if r.Matches(date, name) {
			return i
		}
	}
	return -1
}

// dedupe drops repeated names, keeping first occurrences in order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
