package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/output"
)

// Practice command flags.
var (
	practiceFlagFrom  string
	practiceFlagUntil string
)

// practiceCmd represents the practice command.
var practiceCmd = &cobra.Command{
	Use:     "practice",
	Aliases: []string{"sessions", "headcount"},
	Short:   "Headcount per session and per department",
	Long: `Count attendees per session date, and per department on each date.
Every record counts toward the headcount whatever its status.

Examples:
  rollcall practice
  rollcall practice --from 2024-03-01 --until 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runPractice,
}

// Cumulative command flags.
var (
	cumulativeFlagUntil      string
	cumulativeFlagDepartment string
)

// cumulativeCmd represents the cumulative command.
var cumulativeCmd = &cobra.Command{
	Use:     "cumulative",
	Aliases: []string{"cum", "until"},
	Short:   "Per-member totals up to a date",
	Long: `Show per-member present, late and absent counts over every record on or
before --until. With --department, only current members of that department are
listed. Members with no records in the window are left out.

Examples:
  rollcall cumulative
  rollcall cumulative --until 2024-03-31
  rollcall cumulative --until "last friday" --department House`,
	Args: cobra.NoArgs,
	RunE: runCumulative,
}

func init() {
	practiceCmd.Flags().StringVar(&practiceFlagFrom, "from", "", "Start of range (inclusive)")
	practiceCmd.Flags().StringVar(&practiceFlagUntil, "until", "", "End of range (inclusive)")
	practiceCmd.RegisterFlagCompletionFunc("from", completeDates)
	practiceCmd.RegisterFlagCompletionFunc("until", completeDates)

	cumulativeCmd.Flags().StringVarP(&cumulativeFlagUntil, "until", "u", "today", "Cutoff date (inclusive)")
	cumulativeCmd.Flags().StringVarP(&cumulativeFlagDepartment, "department", "D", "", "Only current members of this department")
	cumulativeCmd.RegisterFlagCompletionFunc("until", completeDates)
	cumulativeCmd.RegisterFlagCompletionFunc("department", completeDepartments)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(cumulativeCmd)
}

func runPractice(cmd *cobra.Command, args []string) error {
	from, err := parseOptionalDate("from", practiceFlagFrom)
	if err != nil {
		return err
	}
	until, err := parseOptionalDate("until", practiceFlagUntil)
	if err != nil {
		return err
	}

	pc, err := ctx.System.PracticeCounts(ctx.Request(), from, until)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintPracticeCounts(pc)
	}
	ctx.CLIFormatter().PrintPracticeCounts(pc)
	return nil
}

func runCumulative(cmd *cobra.Command, args []string) error {
	until, err := parseDate("until", cumulativeFlagUntil)
	if err != nil {
		return err
	}
	dept := model.Department(cumulativeFlagDepartment)

	summaries, err := ctx.System.CumulativeSummaryUntil(ctx.Request(), until, dept)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMemberSummaries(output.SummariesResponse{
			Department: dept,
			Until:      until,
			Members:    summaries,
		})
	}

	title := fmt.Sprintf("Attendance until %s", until)
	if dept != "" {
		title = fmt.Sprintf("%s attendance until %s", dept, until)
	}
	ctx.CLIFormatter().PrintMemberSummaries(title, summaries)
	return nil
}
