package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/output"
)

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:     "summary",
	Aliases: []string{"sum", "stats"},
	Short:   "Show attendance statistics",
	Long: `Show attendance statistics for a member, a department or the whole club.
Without a subcommand, shows club-wide totals.

Examples:
  rollcall summary
  rollcall summary member Alice
  rollcall summary department House`,
	Args: cobra.NoArgs,
	RunE: runSummaryTotal,
}

var summaryMemberCmd = &cobra.Command{
	Use:               "member NAME",
	Short:             "Totals and attendance rate for one member",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFirstArg(completeMembers),
	RunE:              runSummaryMember,
}

var summaryDepartmentCmd = &cobra.Command{
	Use:     "department DEPARTMENT",
	Aliases: []string{"dept"},
	Short:   "Totals for every current member of a department",
	Long: `Show totals for every member currently in DEPARTMENT who has at least
one record. Members are grouped by their current department, so records taken
while they were in another department are included.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFirstArg(completeDepartments),
	RunE:              runSummaryDepartment,
}

var summaryTotalCmd = &cobra.Command{
	Use:   "total",
	Short: "Club-wide totals by status, department and date",
	Args:  cobra.NoArgs,
	RunE:  runSummaryTotal,
}

func init() {
	summaryCmd.AddCommand(summaryMemberCmd)
	summaryCmd.AddCommand(summaryDepartmentCmd)
	summaryCmd.AddCommand(summaryTotalCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummaryMember(cmd *cobra.Command, args []string) error {
	s, err := ctx.System.MemberSummary(ctx.Request(), args[0])
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMemberSummary(s)
	}
	ctx.CLIFormatter().PrintMemberSummary(s)
	return nil
}

func runSummaryDepartment(cmd *cobra.Command, args []string) error {
	dept := model.Department(args[0])
	summaries, err := ctx.System.DepartmentSummary(ctx.Request(), dept)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMemberSummaries(output.SummariesResponse{
			Department: dept,
			Members:    summaries,
		})
	}
	ctx.CLIFormatter().PrintMemberSummaries(fmt.Sprintf("%s attendance", dept), summaries)
	return nil
}

func runSummaryTotal(cmd *cobra.Command, args []string) error {
	stats, err := ctx.System.TotalStatistics(ctx.Request())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTotalStatistics(stats)
	}
	ctx.CLIFormatter().PrintTotalStatistics(stats)
	return nil
}
