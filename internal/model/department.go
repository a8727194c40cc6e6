package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/manav03panchal/rollcall/internal/errors"
)

// Department is one of the club's sub-groups.
type Department string

// DefaultDepartments is the department set used when none is configured.
var DefaultDepartments = []string{"Locking", "Waacking", "HipHop", "GirlsHipHop", "House", "Breaking"}

// Departments is the closed set of departments configured at startup.
// The zero value is an empty set that contains nothing.
type Departments struct {
	ordered []Department
	set     map[Department]struct{}
}

// NewDepartments builds a closed department set, preserving the given order.
// Names must be non-empty and unique, with no surrounding whitespace, commas
// or line breaks, since they are stored in `name,department` lines.
func NewDepartments(names ...string) (Departments, error) {
	if len(names) == 0 {
		return Departments{}, fmt.Errorf("department set must not be empty")
	}

	d := Departments{
		ordered: make([]Department, 0, len(names)),
		set:     make(map[Department]struct{}, len(names)),
	}
	for _, name := range names {
		if name == "" || strings.TrimSpace(name) != name || !utf8.ValidString(name) {
			return Departments{}, fmt.Errorf("invalid department name %q", name)
		}
		if strings.ContainsAny(name, ",\r\n") {
			return Departments{}, fmt.Errorf("department name %q must not contain commas or line breaks", name)
		}
		dept := Department(name)
		if _, dup := d.set[dept]; dup {
			return Departments{}, fmt.Errorf("duplicate department %q", name)
		}
		d.set[dept] = struct{}{}
		d.ordered = append(d.ordered, dept)
	}
	return d, nil
}

// MustDepartments is like NewDepartments but panics on error.
func MustDepartments(names ...string) Departments {
	d, err := NewDepartments(names...)
	if err != nil {
		panic(err)
	}
	return d
}

// Contains reports whether dept is in the set.
func (d Departments) Contains(dept Department) bool {
	_, ok := d.set[dept]
	return ok
}

// List returns the departments in configured order.
func (d Departments) List() []Department {
	out := make([]Department, len(d.ordered))
	copy(out, d.ordered)
	return out
}

// Len returns the number of departments.
func (d Departments) Len() int {
	return len(d.ordered)
}

// Validate returns an ErrInvalidDepartment user error if dept is not in the set.
func (d Departments) Validate(dept Department) error {
	if d.Contains(dept) {
		return nil
	}
	return errors.NewUserErrorWithField(errors.ErrInvalidDepartment,
		"department", string(dept),
		"Department does not exist",
		fmt.Sprintf("Choose one of: %s", d.String()))
}

// String joins the department names with commas.
func (d Departments) String() string {
	parts := make([]string, len(d.ordered))
	for i, dept := range d.ordered {
		parts[i] = string(dept)
	}
	return strings.Join(parts, ", ")
}
