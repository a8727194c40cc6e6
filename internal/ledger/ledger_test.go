package ledger

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/storage"
)

var testDepartments = model.MustDepartments(model.DefaultDepartments...)

func setupFiles(t *testing.T) (*Registry, *Store, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.OpenFiles(dir, 1)
	require.NoError(t, err)
	registry := NewRegistry(backend, testDepartments)
	return registry, NewStore(backend, registry), dir
}

func addMembers(t *testing.T, r *Registry, members ...model.Member) {
	t.Helper()
	for _, m := range members {
		_, err := r.Add(m.Name, m.Department)
		require.NoError(t, err)
	}
}

// failingStore fails every operation with a storage error.
type failingStore struct{}

var errBroken = errors.NewStorageError("read", "broken", stderrors.New("device unplugged"))

func (failingStore) LoadMembers() ([]model.Member, error)   { return nil, errBroken }
func (failingStore) AppendMember(model.Member) error        { return errBroken }
func (failingStore) ReplaceMembers([]model.Member) error    { return errBroken }
func (failingStore) LoadRecords() ([]model.Record, error)   { return nil, errBroken }
func (failingStore) ReplaceRecords([]model.Record) error    { return errBroken }

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistryAdd(t *testing.T) {
	r, _, dir := setupFiles(t)

	m, err := r.Add("Alice", "House")
	require.NoError(t, err)
	assert.Equal(t, model.Member{Name: "Alice", Department: "House"}, m)

	roster, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []model.Member{{Name: "Alice", Department: "House"}}, roster.Members())

	t.Run("duplicate_regardless_of_department", func(t *testing.T) {
		_, err := r.Add("Alice", "Locking")
		assert.ErrorIs(t, err, errors.ErrDuplicateMember)
	})

	t.Run("names_are_case_sensitive", func(t *testing.T) {
		_, err := r.Add("alice", "Locking")
		assert.NoError(t, err)
	})

	t.Run("invalid_department", func(t *testing.T) {
		_, err := r.Add("Bob", "Ballet")
		assert.ErrorIs(t, err, errors.ErrInvalidDepartment)
	})

	t.Run("invalid_name", func(t *testing.T) {
		for _, name := range []string{"", "Kim Minji", "a,b", "Al\xffice"} {
			_, err := r.Add(name, "House")
			assert.ErrorIs(t, err, errors.ErrInvalidName, "name %q", name)
		}
	})

	t.Run("appends_without_rewriting", func(t *testing.T) {
		path := filepath.Join(dir, storage.MembersFileName)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Alice,House\nalice,Locking\n", string(data))
		assert.True(t, utf8.Valid(data))
	})
}

func TestRegistryRemove(t *testing.T) {
	r, _, dir := setupFiles(t)
	addMembers(t, r,
		model.Member{Name: "Alice", Department: "House"},
		model.Member{Name: "Bob", Department: "Locking"},
	)
	path := filepath.Join(dir, storage.MembersFileName)

	t.Run("absent_is_byte_for_byte_noop", func(t *testing.T) {
		before, err := os.ReadFile(path)
		require.NoError(t, err)
		infoBefore, err := os.Stat(path)
		require.NoError(t, err)

		removed, err := r.Remove("Ghost")
		require.NoError(t, err)
		assert.False(t, removed)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		infoAfter, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Equal(t, infoBefore.ModTime(), infoAfter.ModTime())
	})

	t.Run("present", func(t *testing.T) {
		removed, err := r.Remove("Alice")
		require.NoError(t, err)
		assert.True(t, removed)

		roster, err := r.List()
		require.NoError(t, err)
		assert.False(t, roster.Contains("Alice"))
		assert.True(t, roster.Contains("Bob"))
	})

	t.Run("add_after_remove", func(t *testing.T) {
		_, err := r.Add("Alice", "Breaking")
		require.NoError(t, err)
		roster, err := r.List()
		require.NoError(t, err)
		m, ok := roster.Lookup("Alice")
		require.True(t, ok)
		assert.Equal(t, model.Department("Breaking"), m.Department)
	})
}

func TestRegistryStorageFailure(t *testing.T) {
	r := NewRegistry(failingStore{}, testDepartments)

	_, err := r.List()
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)

	_, err = r.Add("Alice", "House")
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)

	_, err = r.Remove("Alice")
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)
}

func TestRoster(t *testing.T) {
	roster := NewRoster([]model.Member{
		{Name: "Alice", Department: "House"},
		{Name: "Bob", Department: "Locking"},
		{Name: "Alice", Department: "Breaking"},
		{Name: "Carol", Department: "House"},
	})

	assert.Len(t, roster.Members(), 3)
	alice, ok := roster.Lookup("Alice")
	require.True(t, ok)
	assert.Equal(t, model.Department("Breaking"), alice.Department)
	assert.Equal(t, "Alice", roster.Members()[0].Name)

	house := roster.InDepartment("House")
	require.Len(t, house, 1)
	assert.Equal(t, "Carol", house[0].Name)

	_, ok = roster.Lookup("Ghost")
	assert.False(t, ok)
}

// =============================================================================
// Attendance Store Tests
// =============================================================================

func TestCheckIn(t *testing.T) {
	r, s, _ := setupFiles(t)
	addMembers(t, r,
		model.Member{Name: "Alice", Department: "House"},
		model.Member{Name: "Bob", Department: "Locking"},
	)

	t.Run("records_every_name", func(t *testing.T) {
		results, err := s.CheckIn(CheckIn{Names: "Alice, Bob", Status: model.StatusPresent, Date: "2024-03-01"})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].Recorded)
		assert.True(t, results[1].Recorded)
		assert.Equal(t, model.Department("Locking"), results[1].Department)

		records, err := s.ForDate("2024-03-01")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("recheck_in_is_idempotent", func(t *testing.T) {
		before, err := s.All()
		require.NoError(t, err)

		results, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusLate, Date: "2024-03-01"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Recorded)
		assert.Contains(t, results[0].Message, "already recorded")

		after, err := s.All()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("mixed_batch_writes_new_names_only", func(t *testing.T) {
		results, err := s.CheckIn(CheckIn{Names: "Alice Bob", Status: model.StatusLate, Date: "2024-03-08", Note: "storm"})
		require.NoError(t, err)
		assert.True(t, results[0].Recorded)

		results, err = s.CheckIn(CheckIn{Names: "Bob,Alice", Status: model.StatusAbsent, Date: "2024-03-08"})
		require.NoError(t, err)
		assert.False(t, results[0].Recorded)
		assert.False(t, results[1].Recorded)

		records, err := s.ForDate("2024-03-08")
		require.NoError(t, err)
		for _, rec := range records {
			assert.Equal(t, model.StatusLate, rec.Status)
			assert.Equal(t, "storm", rec.Note)
		}
	})

	t.Run("unknown_names_reject_whole_batch", func(t *testing.T) {
		before, err := s.All()
		require.NoError(t, err)

		_, err = s.CheckIn(CheckIn{Names: "Alice, Ghost, Nobody", Status: model.StatusPresent, Date: "2024-03-15"})
		assert.ErrorIs(t, err, errors.ErrUnknownMembers)
		unknown, ok := errors.AsUnknownMembers(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Ghost", "Nobody"}, unknown.Names)

		after, err := s.All()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("repeated_names_collapse", func(t *testing.T) {
		results, err := s.CheckIn(CheckIn{Names: "Alice Alice,Alice", Status: model.StatusPresent, Date: "2024-03-22"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].Recorded)
	})

	t.Run("empty_input", func(t *testing.T) {
		for _, raw := range []string{"", " , ,", "\t"} {
			_, err := s.CheckIn(CheckIn{Names: raw, Status: model.StatusPresent, Date: "2024-03-01"})
			assert.ErrorIs(t, err, errors.ErrEmptyInput)
		}
	})

	t.Run("invalid_status", func(t *testing.T) {
		_, err := s.CheckIn(CheckIn{Names: "Alice", Status: "excused", Date: "2024-04-01"})
		assert.ErrorIs(t, err, errors.ErrInvalidStatus)
	})

	t.Run("invalid_date", func(t *testing.T) {
		for _, date := range []string{"2024-3-1", "01/03/2024", "2024-02-30", ""} {
			_, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: date})
			assert.ErrorIs(t, err, errors.ErrInvalidDate, "date %q", date)
		}
	})
}

func TestCheckInDepartmentSnapshot(t *testing.T) {
	r, s, _ := setupFiles(t)
	addMembers(t, r, model.Member{Name: "Alice", Department: "House"})

	_, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-01"})
	require.NoError(t, err)

	_, err = r.Remove("Alice")
	require.NoError(t, err)
	addMembers(t, r, model.Member{Name: "Alice", Department: "Breaking"})

	_, err = s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-08"})
	require.NoError(t, err)

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.Department("House"), records[0].Department)
	assert.Equal(t, model.Department("Breaking"), records[1].Department)
}

func TestCheckInSkipsRewriteWhenNothingAdded(t *testing.T) {
	r, s, dir := setupFiles(t)
	addMembers(t, r, model.Member{Name: "Alice", Department: "House"})
	_, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-01"})
	require.NoError(t, err)

	path := filepath.Join(dir, storage.RecordsFileName)
	before, err := os.Stat(path)
	require.NoError(t, err)

	_, err = s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-01"})
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.True(t, os.SameFile(before, after), "store must not be replaced")
}

func TestModifyStatus(t *testing.T) {
	r, s, _ := setupFiles(t)
	addMembers(t, r, model.Member{Name: "Alice", Department: "House"})
	_, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-01", Note: "early"})
	require.NoError(t, err)

	rec, err := s.ModifyStatus("2024-03-01", "Alice", model.StatusLate)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLate, rec.Status)
	assert.Equal(t, "early", rec.Note)

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.StatusLate, records[0].Status)

	t.Run("not_found", func(t *testing.T) {
		_, err := s.ModifyStatus("2024-03-02", "Alice", model.StatusLate)
		assert.ErrorIs(t, err, errors.ErrRecordNotFound)
	})

	t.Run("invalid_status", func(t *testing.T) {
		_, err := s.ModifyStatus("2024-03-01", "Alice", "Late")
		assert.ErrorIs(t, err, errors.ErrInvalidStatus)
	})

	t.Run("orphan_records_stay_editable", func(t *testing.T) {
		_, err := r.Remove("Alice")
		require.NoError(t, err)
		_, err = s.ModifyStatus("2024-03-01", "Alice", model.StatusAbsent)
		assert.NoError(t, err)
	})
}

func TestConcurrentWrites(t *testing.T) {
	const n = 20
	r, s, _ := setupFiles(t)

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Member%02d", i)
	}

	t.Run("add_member", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for _, name := range names {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_, err := r.Add(name, "House")
				errs <- err
			}(name)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		roster, err := r.List()
		require.NoError(t, err)
		assert.Len(t, roster.Members(), n)
	})

	t.Run("check_in", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for _, name := range names {
			wg.Add(1)
			go func(name string) {
				defer wg.Done()
				_, err := s.CheckIn(CheckIn{Names: name, Status: model.StatusPresent, Date: "2024-03-01"})
				errs <- err
			}(name)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		records, err := s.ForDate("2024-03-01")
		require.NoError(t, err)
		assert.Len(t, records, n)
	})

	t.Run("modify_and_check_in_interleaved", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 2*n)
		for _, name := range names {
			wg.Add(2)
			go func(name string) {
				defer wg.Done()
				_, err := s.ModifyStatus("2024-03-01", name, model.StatusLate)
				errs <- err
			}(name)
			go func(name string) {
				defer wg.Done()
				_, err := s.CheckIn(CheckIn{Names: name, Status: model.StatusAbsent, Date: "2024-03-08"})
				errs <- err
			}(name)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		records, err := s.All()
		require.NoError(t, err)
		require.Len(t, records, 2*n)
		for _, rec := range records {
			if rec.Date == "2024-03-01" {
				assert.Equal(t, model.StatusLate, rec.Status, rec.Name)
			} else {
				assert.Equal(t, model.StatusAbsent, rec.Status, rec.Name)
			}
		}
	})
}

func TestModifyStatusUpdatesDuplicateRows(t *testing.T) {
	_, s, dir := setupFiles(t)
	csv := "date,name,department,status,note\n" +
		"2024-03-01,Alice,House,absent,\n" +
		"2024-03-01,Bob,Locking,absent,\n" +
		"2024-03-01,Alice,House,present,typo\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.RecordsFileName), []byte(csv), 0644))

	rec, err := s.ModifyStatus("2024-03-01", "Alice", model.StatusLate)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLate, rec.Status)
	assert.Empty(t, rec.Note)

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, model.StatusLate, records[0].Status)
	assert.Equal(t, model.StatusAbsent, records[1].Status)
	assert.Equal(t, model.StatusLate, records[2].Status)
	assert.Equal(t, "typo", records[2].Note)
}

func TestQueries(t *testing.T) {
	r, s, _ := setupFiles(t)
	addMembers(t, r, model.Member{Name: "Alice", Department: "House"})
	for _, date := range []string{"2024-03-08", "2024-03-01", "2024-03-15"} {
		_, err := s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: date})
		require.NoError(t, err)
	}

	dates := func(records []model.Record) []string {
		out := make([]string, len(records))
		for i, rec := range records {
			out[i] = rec.Date
		}
		return out
	}

	all, err := s.ForDate("")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-08", "2024-03-01", "2024-03-15"}, dates(all))

	none, err := s.ForDate("2024-04-01")
	require.NoError(t, err)
	assert.Empty(t, none)

	inRange, err := s.InRange("2024-03-01", "2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-08", "2024-03-01"}, dates(inRange))

	openStart, err := s.InRange("", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01"}, dates(openStart))

	_, err = s.InRange("2024-03-15", "2024-03-01")
	assert.ErrorIs(t, err, errors.ErrInvalidDate)

	_, err = s.ForDate("March 1")
	assert.ErrorIs(t, err, errors.ErrInvalidDate)
}

func TestStoreStorageFailure(t *testing.T) {
	backend, err := storage.OpenBadger("", true)
	require.NoError(t, err)
	defer backend.Close()
	registry := NewRegistry(backend, testDepartments)
	addMembers(t, registry, model.Member{Name: "Alice", Department: "House"})

	s := NewStore(failingStore{}, registry)
	_, err = s.CheckIn(CheckIn{Names: "Alice", Status: model.StatusPresent, Date: "2024-03-01"})
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)

	_, err = s.ModifyStatus("2024-03-01", "Alice", model.StatusLate)
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)

	_, err = s.ForDate("")
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)
}
