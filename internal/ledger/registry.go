// Package ledger owns the write side of rollcall: the member registry and the
// attendance store. Both read their backing store on every call and serialize
// read-modify-write cycles behind a mutex.
package ledger

import (
	"fmt"
	"sync"

	"github.com/manav03panchal/rollcall/internal/errors"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/storage"
	"github.com/manav03panchal/rollcall/internal/validate"
)

// Roster is an ordered snapshot of the registry.
type Roster struct {
	members []model.Member
	index   map[string]int
}

// NewRoster builds a roster from members in store order. A name that appears
// more than once keeps its first position and its last department.
func NewRoster(members []model.Member) *Roster {
	r := &Roster{index: make(map[string]int, len(members))}
	for _, m := range members {
		if i, ok := r.index[m.Name]; ok {
			r.members[i].Department = m.Department
			continue
		}
		r.index[m.Name] = len(r.members)
		r.members = append(r.members, m)
	}
	return r
}

// Lookup returns the member registered under name.
func (r *Roster) Lookup(name string) (model.Member, bool) {
	i, ok := r.index[name]
	if !ok {
		return model.Member{}, false
	}
	return r.members[i], true
}

// Contains reports whether name is registered.
func (r *Roster) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Members returns the members in roster order.
func (r *Roster) Members() []model.Member {
	out := make([]model.Member, len(r.members))
	copy(out, r.members)
	return out
}

// InDepartment returns the members currently in dept, in roster order.
func (r *Roster) InDepartment(dept model.Department) []model.Member {
	var out []model.Member
	for _, m := range r.members {
		if m.Department == dept {
			out = append(out, m)
		}
	}
	return out
}

// Registry is the member registry.
type Registry struct {
	mu          sync.Mutex
	store       storage.MemberStore
	departments model.Departments
}

// NewRegistry creates a registry over store, accepting only departments.
func NewRegistry(store storage.MemberStore, departments model.Departments) *Registry {
	return &Registry{store: store, departments: departments}
}

// Departments returns the closed department set.
func (r *Registry) Departments() model.Departments {
	return r.departments
}

// List reads the member store and returns the current roster.
func (r *Registry) List() (*Roster, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *Registry) load() (*Roster, error) {
	members, err := r.store.LoadMembers()
	if err != nil {
		return nil, err
	}
	return NewRoster(members), nil
}

// Add registers name in dept. Existing entries are never rewritten.
func (r *Registry) Add(name string, dept model.Department) (model.Member, error) {
	if err := r.departments.Validate(dept); err != nil {
		return model.Member{}, err
	}
	if err := validate.MemberName(name); err != nil {
		return model.Member{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roster, err := r.load()
	if err != nil {
		return model.Member{}, err
	}
	if existing, ok := roster.Lookup(name); ok {
		return model.Member{}, errors.NewUserErrorWithField(errors.ErrDuplicateMember,
			"name", name,
			"Member already exists",
			fmt.Sprintf("%s is registered in %s; remove them first to change department", name, existing.Department))
	}

	m := model.Member{Name: name, Department: dept}
	if err := r.store.AppendMember(m); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// Remove deletes name from the registry and reports whether it was present.
// An absent name leaves the store untouched. Attendance records are kept.
func (r *Registry) Remove(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, err := r.store.LoadMembers()
	if err != nil {
		return false, err
	}

	kept := make([]model.Member, 0, len(members))
	for _, m := range members {
		if m.Name != name {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(members) {
		return false, nil
	}

	if err := r.store.ReplaceMembers(kept); err != nil {
		return false, err
	}
	return true, nil
}
