package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/rollcall/internal/errors"
)

// =============================================================================
// Departments Tests
// =============================================================================

func TestNewDepartments(t *testing.T) {
	t.Run("preserves_order", func(t *testing.T) {
		d, err := NewDepartments("House", "Breaking", "Locking")
		require.NoError(t, err)
		assert.Equal(t, []Department{"House", "Breaking", "Locking"}, d.List())
		assert.Equal(t, 3, d.Len())
		assert.Equal(t, "House, Breaking, Locking", d.String())
	})

	t.Run("rejects_bad_sets", func(t *testing.T) {
		cases := [][]string{
			{},
			{""},
			{" House"},
			{"House", "House"},
			{"Hip,Hop"},
			{"Hip\nHop"},
			{"Hou\xffse"},
		}
		for _, names := range cases {
			_, err := NewDepartments(names...)
			assert.Error(t, err, "names %q", names)
		}
	})

	t.Run("default_set_is_valid", func(t *testing.T) {
		d := MustDepartments(DefaultDepartments...)
		assert.Equal(t, len(DefaultDepartments), d.Len())
	})
}

func TestDepartmentsContains(t *testing.T) {
	d := MustDepartments("House", "Locking")
	assert.True(t, d.Contains("House"))
	assert.False(t, d.Contains("house"), "departments are case-sensitive")
	assert.False(t, Departments{}.Contains("House"))

	assert.NoError(t, d.Validate("Locking"))
	err := d.Validate("Ballet")
	assert.ErrorIs(t, err, errors.ErrInvalidDepartment)
}

func TestDepartmentsListIsCopy(t *testing.T) {
	d := MustDepartments("House", "Locking")
	list := d.List()
	list[0] = "Mutated"
	assert.True(t, d.Contains("House"))
	assert.Equal(t, Department("House"), d.List()[0])
}

// =============================================================================
// Status Tests
// =============================================================================

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"present", StatusPresent, false},
		{"LATE", StatusLate, false},
		{" absent ", StatusAbsent, false},
		{"excused", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("Present").Valid())
}

func TestStatusValidate(t *testing.T) {
	assert.NoError(t, StatusLate.Validate())
	err := Status("excused").Validate()
	assert.ErrorIs(t, err, errors.ErrInvalidStatus)
	assert.Contains(t, err.Error(), "excused")
}

// =============================================================================
// Record Tests
// =============================================================================

func TestRecordMatches(t *testing.T) {
	r := Record{Date: "2024-03-01", Name: "Alice"}
	assert.True(t, r.Matches("2024-03-01", "Alice"))
	assert.False(t, r.Matches("2024-03-01", "alice"))
	assert.False(t, r.Matches("2024-03-02", "Alice"))
}

func TestRecordInRange(t *testing.T) {
	r := Record{Date: "2024-03-10"}
	assert.True(t, r.InRange("2024-03-10", "2024-03-10"), "bounds are inclusive")
	assert.True(t, r.InRange("2024-03-01", "2024-03-31"))
	assert.True(t, r.InRange("", ""))
	assert.True(t, r.InRange("", "2024-03-10"))
	assert.False(t, r.InRange("2024-03-11", ""))
	assert.False(t, r.InRange("", "2024-03-09"))
}
