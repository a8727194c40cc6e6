package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/summary"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleDepartment = lipgloss.NewStyle().
			Foreground(colorPrimary)

	styleNote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorMuted)
)

// statusStyles colors each attendance status.
var statusStyles = map[model.Status]lipgloss.Style{
	model.StatusPresent: styleSuccess,
	model.StatusLate:    styleWarning,
	model.StatusAbsent:  styleError,
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// Department formats a department name.
func (c *CLIFormatter) Department(dept model.Department) string {
	return c.render(styleDepartment, string(dept))
}

// Status formats a status in its color.
func (c *CLIFormatter) Status(s model.Status) string {
	style, ok := statusStyles[s]
	if !ok {
		return string(s)
	}
	return c.render(style, string(s))
}

// Note formats a note.
func (c *CLIFormatter) Note(text string) string {
	return c.render(styleNote, text)
}

// PrintMembers prints the roster.
func (c *CLIFormatter) PrintMembers(members []model.Member) {
	if len(members) == 0 {
		c.Muted("No members registered.")
		c.Muted("Use 'rollcall member add <name> <department>' to add one.")
		return
	}

	rows := make([]TableRow, len(members))
	for i, m := range members {
		rows[i] = TableRow{Columns: []string{m.Name, string(m.Department)}}
	}
	c.PrintTable([]string{"NAME", "DEPARTMENT"}, rows)
	c.Muted(fmt.Sprintf("%d member(s)", len(members)))
}

// PrintMemberAdded prints the result of adding a member.
func (c *CLIFormatter) PrintMemberAdded(m model.Member) {
	c.Success(fmt.Sprintf("Added %s to %s", m.Name, c.Department(m.Department)))
}

// PrintMemberRemoved prints the result of removing a member.
func (c *CLIFormatter) PrintMemberRemoved(name string, removed bool) {
	if !removed {
		c.Warning(fmt.Sprintf("%s is not in the member list; nothing changed.", name))
		return
	}
	c.Success(fmt.Sprintf("Removed %s", name))
	c.Muted("Their attendance records are kept.")
}

// PrintCheckIn prints one line per name in a check-in batch.
func (c *CLIFormatter) PrintCheckIn(results []ledger.CheckInResult) {
	for _, r := range results {
		if r.Recorded {
			c.Success(r.Message)
		} else {
			c.Warning(r.Message)
		}
	}
}

// PrintModified prints a corrected record.
func (c *CLIFormatter) PrintModified(rec model.Record) {
	c.Success(fmt.Sprintf("%s on %s is now %s", rec.Name, rec.Date, c.Status(rec.Status)))
}

// PrintRecords prints attendance records as a table.
func (c *CLIFormatter) PrintRecords(records []model.Record) {
	if len(records) == 0 {
		c.Muted("No attendance records found.")
		return
	}

	rows := make([]TableRow, len(records))
	for i, r := range records {
		rows[i] = TableRow{Columns: []string{r.Date, r.Name, string(r.Department), string(r.Status), r.Note}}
	}
	c.PrintTable([]string{"DATE", "NAME", "DEPARTMENT", "STATUS", "NOTE"}, rows)
	c.Muted(fmt.Sprintf("%d record(s)", len(records)))
}

// PrintMemberSummary prints one member's totals.
func (c *CLIFormatter) PrintMemberSummary(s summary.MemberSummary) {
	c.Title(s.Name)
	c.Printf("  Department: %s\n", c.Department(s.Department))
	c.Printf("  Sessions:   %d\n", s.Total)
	c.Printf("  Present:    %d\n", s.Present)
	c.Printf("  Late:       %d\n", s.Late)
	c.Printf("  Absent:     %d\n", s.Absent)
	c.Printf("  Rate:       %s %s\n", ProgressBar(s.Rate, 20), c.render(styleBold, FormatRate(s.Rate)))
}

// PrintMemberSummaries prints per-member totals as a table under title.
func (c *CLIFormatter) PrintMemberSummaries(title string, summaries []summary.MemberSummary) {
	c.Title(title)
	if len(summaries) == 0 {
		c.Muted("No attendance records found.")
		return
	}

	rows := make([]TableRow, len(summaries))
	for i, s := range summaries {
		rows[i] = TableRow{Columns: []string{
			s.Name,
			string(s.Department),
			strconv.Itoa(s.Present),
			strconv.Itoa(s.Late),
			strconv.Itoa(s.Absent),
			strconv.Itoa(s.Total),
			FormatRate(s.Rate),
		}}
	}
	c.PrintTable([]string{"NAME", "DEPARTMENT", "PRESENT", "LATE", "ABSENT", "TOTAL", "RATE"}, rows)
}

// PrintTotalStatistics prints the club-wide breakdown.
func (c *CLIFormatter) PrintTotalStatistics(stats summary.TotalStatistics) {
	c.Title("Overall")
	c.Printf("  Present: %d  Late: %d  Absent: %d  (%s)\n",
		stats.Overall.Present, stats.Overall.Late, stats.Overall.Absent, FormatRate(stats.Overall.Rate))
	c.Println()

	c.Title("By department")
	deptRows := make([]TableRow, len(stats.ByDepartment))
	for i, d := range stats.ByDepartment {
		deptRows[i] = TableRow{Columns: countColumns(string(d.Department), d.StatusCounts)}
	}
	c.PrintTable([]string{"DEPARTMENT", "PRESENT", "LATE", "ABSENT", "TOTAL"}, deptRows)
	c.Println()

	c.Title("By date")
	dateRows := make([]TableRow, len(stats.ByDate))
	for i, d := range stats.ByDate {
		dateRows[i] = TableRow{Columns: countColumns(d.Date, d.StatusCounts)}
	}
	c.PrintTable([]string{"DATE", "PRESENT", "LATE", "ABSENT", "TOTAL"}, dateRows)
}

func countColumns(label string, sc summary.StatusCounts) []string {
	return []string{
		label,
		strconv.Itoa(sc.Present),
		strconv.Itoa(sc.Late),
		strconv.Itoa(sc.Absent),
		strconv.Itoa(sc.Total),
	}
}

// PrintPracticeCounts prints session headcounts.
func (c *CLIFormatter) PrintPracticeCounts(pc summary.PracticeCounts) {
	if len(pc.Daily) == 0 {
		c.Muted("No sessions in this range.")
		return
	}

	c.Title("Sessions")
	daily := make([]TableRow, len(pc.Daily))
	for i, h := range pc.Daily {
		daily[i] = TableRow{Columns: []string{h.Date, strconv.Itoa(h.Count)}}
	}
	c.PrintTable([]string{"DATE", "HEADCOUNT"}, daily)
	c.Println()

	c.Title("By department")
	byDept := make([]TableRow, len(pc.ByDepartment))
	for i, h := range pc.ByDepartment {
		byDept[i] = TableRow{Columns: []string{h.Date, string(h.Department), strconv.Itoa(h.Count)}}
	}
	c.PrintTable([]string{"DATE", "DEPARTMENT", "HEADCOUNT"}, byDept)
}

// PrintDepartments prints the configured departments.
func (c *CLIFormatter) PrintDepartments(depts []model.Department) {
	for _, d := range depts {
		c.Println(c.Department(d))
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row for PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	line := func(cols []string) string {
		var sb strings.Builder
		for i, col := range cols {
			if i >= len(widths) {
				break
			}
			sb.WriteString(col)
			if i < len(cols)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(col)+2))
			}
		}
		return sb.String()
	}

	c.Println(c.render(styleBold, line(headers)))

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	c.Println(c.render(styleMuted, line(seps)))

	for _, row := range rows {
		c.Println(line(row.Columns))
	}
}
