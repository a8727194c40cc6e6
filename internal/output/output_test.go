package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/summary"
)

func newCLI() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewCLIFormatter(&Formatter{Writer: &buf, Format: FormatCLI, ColorMode: ColorNever}), &buf
}

func newJSON() (*JSONFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewJSONFormatter(&Formatter{Writer: &buf, Format: FormatJSON}), &buf
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatPlain, ParseFormat("plain"))
	assert.Equal(t, FormatCLI, ParseFormat("cli"))
	assert.Equal(t, FormatCLI, ParseFormat("yaml"))
}

func TestParseColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAuto, ParseColorMode(""))
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_overrides_always", func(t *testing.T) {
		f := &Formatter{Format: FormatPlain, ColorMode: ColorAlways}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{Writer: &buf, ColorMode: ColorAuto}
		// Buffer is not a terminal
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterPrint(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	f.Print("hello")
	f.Println(" world")
	f.Printf("%d", 42)
	assert.Equal(t, "hello world\n42", buf.String())
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	require.NoError(t, f.JSON(map[string]string{"key": "value"}))
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "75.0%", FormatRate(75))
	assert.Equal(t, "33.3%", FormatRate(100.0/3))
	assert.Equal(t, "0.0%", FormatRate(0))
}

// =============================================================================
// CLIFormatter Tests
// =============================================================================

func TestCLIFormatterMessages(t *testing.T) {
	c, buf := newCLI()
	c.Success("done")
	c.Warning("careful")
	c.Error("broken")
	assert.Equal(t, "✓ done\n⚠ careful\n✗ broken\n", buf.String())
}

func TestCLIFormatterPrintMembers(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		c, buf := newCLI()
		c.PrintMembers([]model.Member{
			{Name: "Alice", Department: "House"},
			{Name: "Bartholomew", Department: "Locking"},
		})
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "NAME         DEPARTMENT", lines[0])
		assert.Equal(t, "Alice        House", lines[2])
		assert.Equal(t, "Bartholomew  Locking", lines[3])
		assert.Equal(t, "2 member(s)", lines[4])
	})

	t.Run("empty", func(t *testing.T) {
		c, buf := newCLI()
		c.PrintMembers(nil)
		assert.Contains(t, buf.String(), "No members registered.")
	})
}

func TestCLIFormatterPrintMemberRemoved(t *testing.T) {
	c, buf := newCLI()
	c.PrintMemberRemoved("Ghost", false)
	assert.Contains(t, buf.String(), "Ghost is not in the member list")

	buf.Reset()
	c.PrintMemberRemoved("Alice", true)
	assert.Contains(t, buf.String(), "✓ Removed Alice")
	assert.Contains(t, buf.String(), "records are kept")
}

func TestCLIFormatterPrintCheckIn(t *testing.T) {
	c, buf := newCLI()
	c.PrintCheckIn([]ledger.CheckInResult{
		{Name: "Alice", Recorded: true, Message: "Alice recorded as present for 2024-03-01"},
		{Name: "Bob", Message: "Bob is already recorded for 2024-03-01"},
	})
	assert.Equal(t,
		"✓ Alice recorded as present for 2024-03-01\n⚠ Bob is already recorded for 2024-03-01\n",
		buf.String())
}

func TestCLIFormatterPrintRecords(t *testing.T) {
	c, buf := newCLI()
	c.PrintRecords([]model.Record{
		{Date: "2024-03-01", Name: "Alice", Department: "House", Status: model.StatusLate, Note: "bus"},
	})
	out := buf.String()
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2024-03-01  Alice")
	assert.Contains(t, out, "late")
	assert.Contains(t, out, "1 record(s)")

	buf.Reset()
	c.PrintRecords(nil)
	assert.Contains(t, buf.String(), "No attendance records found.")
}

func TestCLIFormatterPrintMemberSummary(t *testing.T) {
	c, buf := newCLI()
	c.PrintMemberSummary(summary.MemberSummary{
		Name:         "Alice",
		Department:   "House",
		StatusCounts: summary.StatusCounts{Present: 3, Absent: 1, Total: 4, Rate: 75},
	})
	out := buf.String()
	assert.Contains(t, out, "Sessions:   4")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, ProgressBar(75, 20))
}

func TestCLIFormatterPrintTotalStatistics(t *testing.T) {
	c, buf := newCLI()
	c.PrintTotalStatistics(summary.TotalStatistics{
		Overall: summary.StatusCounts{Present: 1, Late: 1, Total: 2, Rate: 50},
		ByDepartment: []summary.DepartmentCounts{
			{Department: "House", StatusCounts: summary.StatusCounts{Present: 1, Late: 1, Total: 2}},
		},
		ByDate: []summary.DateCounts{
			{Date: "2024-03-01", StatusCounts: summary.StatusCounts{Present: 1, Late: 1, Total: 2}},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Present: 1  Late: 1  Absent: 0  (50.0%)")
	assert.Contains(t, out, "By department")
	assert.Contains(t, out, "By date")
	assert.Contains(t, out, "2024-03-01")
}

func TestCLIFormatterPrintPracticeCounts(t *testing.T) {
	c, buf := newCLI()
	c.PrintPracticeCounts(summary.PracticeCounts{})
	assert.Contains(t, buf.String(), "No sessions in this range.")

	buf.Reset()
	c.PrintPracticeCounts(summary.PracticeCounts{
		Daily:        []summary.Headcount{{Date: "2024-03-01", Count: 3}},
		ByDepartment: []summary.DepartmentHeadcount{{Date: "2024-03-01", Department: "House", Count: 3}},
	})
	assert.Contains(t, buf.String(), "HEADCOUNT")
	assert.Contains(t, buf.String(), "2024-03-01  House")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percentage float64
		width      int
		filled     int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10},
		{-10, 10, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.percentage, tt.width)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"))
		assert.Equal(t, tt.width-tt.filled, strings.Count(bar, "░"))
	}
}

func TestCLIFormatterPrintTable(t *testing.T) {
	t.Run("empty_rows_print_nothing", func(t *testing.T) {
		c, buf := newCLI()
		c.PrintTable([]string{"A"}, nil)
		assert.Empty(t, buf.String())
	})

	t.Run("wide_characters_align", func(t *testing.T) {
		c, buf := newCLI()
		c.PrintTable([]string{"NAME", "X"}, []TableRow{
			{Columns: []string{"민지", "1"}},
			{Columns: []string{"Bob", "2"}},
		})
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "민지  1", lines[2])
		assert.Equal(t, "Bob   2", lines[3])
	})
}

// =============================================================================
// JSONFormatter Tests
// =============================================================================

func TestJSONFormatterPrintError(t *testing.T) {
	j, buf := newJSON()
	require.NoError(t, j.PrintError("error", "not in the member list: Ghost", "Add them first", []string{"Ghost"}))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, []string{"Ghost"}, resp.Unknown)
	assert.Equal(t, "Add them first", resp.Message)
}

func TestJSONFormatterEmptyListsAreArrays(t *testing.T) {
	j, buf := newJSON()
	require.NoError(t, j.PrintMembers(nil))
	assert.Contains(t, buf.String(), `"members": []`)

	buf.Reset()
	require.NoError(t, j.PrintRecords(nil))
	assert.Contains(t, buf.String(), `"records": []`)

	buf.Reset()
	require.NoError(t, j.PrintMemberSummaries(SummariesResponse{Until: "2024-03-01"}))
	assert.Contains(t, buf.String(), `"members": []`)
}

func TestNewCheckInResponse(t *testing.T) {
	resp := NewCheckInResponse([]ledger.CheckInResult{
		{Name: "Alice", Recorded: true},
		{Name: "Bob"},
		{Name: "Carol", Recorded: true},
	})
	assert.Equal(t, 2, resp.Recorded)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, "ok", resp.Status)
}

func TestJSONFormatterPrintMemberSummary(t *testing.T) {
	j, buf := newJSON()
	require.NoError(t, j.PrintMemberSummary(summary.MemberSummary{
		Name:         "Alice",
		Department:   "House",
		StatusCounts: summary.StatusCounts{Present: 3, Absent: 1, Total: 4, Rate: 75},
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Alice", got["name"])
	assert.Equal(t, 75.0, got["attendance_rate"])
	assert.Equal(t, 4.0, got["total"])
}

func TestJSONFormatterPrintMemberRemoved(t *testing.T) {
	j, buf := newJSON()
	require.NoError(t, j.PrintMemberRemoved("Ghost", false))
	assert.Contains(t, buf.String(), `"status": "not_found"`)
}
