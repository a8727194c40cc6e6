// Package attendance is the facade over the ledger and the summary engine.
// It is the only entry point the command-line layer uses.
package attendance

import (
	"context"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/logging"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/storage"
	"github.com/manav03panchal/rollcall/internal/summary"
)

// System composes the member registry, the attendance store and the summary
// engine over one storage backend.
type System struct {
	registry *ledger.Registry
	store    *ledger.Store
	engine   *summary.Engine
	location string
}

// New creates a System over backend, accepting only departments.
func New(backend storage.Backend, departments model.Departments) *System {
	registry := ledger.NewRegistry(backend, departments)
	return &System{
		registry: registry,
		store:    ledger.NewStore(backend, registry),
		engine:   summary.NewEngine(departments),
		location: backend.Location(),
	}
}

// Departments returns the configured department set.
func (s *System) Departments() model.Departments {
	return s.registry.Departments()
}

// ListMembers returns every registered member in store order.
func (s *System) ListMembers(ctx context.Context) ([]model.Member, error) {
	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	return roster.Members(), nil
}

// AddMember registers a new member.
func (s *System) AddMember(ctx context.Context, name string, dept model.Department) (model.Member, error) {
	if err := ctx.Err(); err != nil {
		return model.Member{}, err
	}
	m, err := s.registry.Add(name, dept)
	if err != nil {
		return model.Member{}, s.fail(ctx, "add_member", err, logging.KeyMember, name)
	}
	logging.InfoContext(ctx, "member added",
		logging.KeyOperation, "add_member",
		logging.KeyMember, m.Name,
		logging.KeyDepartment, string(m.Department))
	return m, nil
}

// RemoveMember unregisters name and reports whether it was registered.
// The member's attendance records are kept.
func (s *System) RemoveMember(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	removed, err := s.registry.Remove(name)
	if err != nil {
		return false, s.fail(ctx, "remove_member", err, logging.KeyMember, name)
	}
	if removed {
		logging.InfoContext(ctx, "member removed",
			logging.KeyOperation, "remove_member",
			logging.KeyMember, name)
	}
	return removed, nil
}

// CheckIn records attendance for a batch of names.
func (s *System) CheckIn(ctx context.Context, req ledger.CheckIn) ([]ledger.CheckInResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results, err := s.store.CheckIn(req)
	if err != nil {
		return nil, s.fail(ctx, "check_in", err, logging.KeyDate, req.Date)
	}
	added := 0
	for _, r := range results {
		if r.Recorded {
			added++
		}
	}
	logging.InfoContext(ctx, "check-in processed",
		logging.KeyOperation, "check_in",
		logging.KeyDate, req.Date,
		logging.KeyStatus, string(req.Status),
		logging.KeyCount, added)
	return results, nil
}

// ModifyStatus corrects the status of an existing record.
func (s *System) ModifyStatus(ctx context.Context, date, name string, status model.Status) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	rec, err := s.store.ModifyStatus(date, name, status)
	if err != nil {
		return model.Record{}, s.fail(ctx, "modify_status", err, logging.KeyMember, name, logging.KeyDate, date)
	}
	logging.InfoContext(ctx, "status modified",
		logging.KeyOperation, "modify_status",
		logging.KeyMember, name,
		logging.KeyDate, date,
		logging.KeyStatus, string(status))
	return rec, nil
}

// RecordsForDate returns the records for date, or all records when date is
// empty.
func (s *System) RecordsForDate(ctx context.Context, date string) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.store.ForDate(date)
	if err != nil {
		return nil, s.fail(ctx, "records_for_date", err, logging.KeyDate, date)
	}
	return records, nil
}

// RecordsInRange returns the records dated within [start, end].
func (s *System) RecordsInRange(ctx context.Context, start, end string) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.store.InRange(start, end)
	if err != nil {
		return nil, s.fail(ctx, "records_in_range", err)
	}
	return records, nil
}

// MemberSummary returns one member's attendance totals.
func (s *System) MemberSummary(ctx context.Context, name string) (summary.MemberSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return summary.MemberSummary{}, err
	}
	return s.engine.MemberSummary(snap, name)
}

// DepartmentSummary returns the totals of every current member of dept.
func (s *System) DepartmentSummary(ctx context.Context, dept model.Department) ([]summary.MemberSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.DepartmentSummary(snap, dept)
}

// TotalStatistics returns the club-wide breakdown.
func (s *System) TotalStatistics(ctx context.Context) (summary.TotalStatistics, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return summary.TotalStatistics{}, err
	}
	return s.engine.TotalStatistics(snap)
}

// PracticeCounts returns session headcounts within [start, end].
func (s *System) PracticeCounts(ctx context.Context, start, end string) (summary.PracticeCounts, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return summary.PracticeCounts{}, err
	}
	return s.engine.PracticeCounts(snap, start, end)
}

// CumulativeSummaryUntil returns per-member totals up to and including until,
// optionally restricted to the current members of dept.
func (s *System) CumulativeSummaryUntil(ctx context.Context, until string, dept model.Department) ([]summary.MemberSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.CumulativeUntil(snap, until, dept)
}

func (s *System) roster(ctx context.Context) (*ledger.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roster, err := s.registry.List()
	if err != nil {
		return nil, s.fail(ctx, "list_members", err)
	}
	return roster, nil
}

func (s *System) snapshot(ctx context.Context) (summary.Snapshot, error) {
	roster, err := s.roster(ctx)
	if err != nil {
		return summary.Snapshot{}, err
	}
	records, err := s.store.All()
	if err != nil {
		return summary.Snapshot{}, s.fail(ctx, "load_records", err)
	}
	return summary.Snapshot{Roster: roster, Records: records}, nil
}

// fail logs storage faults at error level and returns err unchanged. User
// errors are returned silently; the caller renders them.
func (s *System) fail(ctx context.Context, op string, err error, args ...any) error {
	if errors.IsStorageError(err) {
		attrs := append([]any{
			logging.KeyOperation, op,
			logging.KeyPath, s.location,
			logging.KeyError, err.Error(),
		}, args...)
		logging.ErrorContext(ctx, "storage fault", attrs...)
	}
	return err
}
