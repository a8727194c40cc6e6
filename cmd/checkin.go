package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/ledger"
	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/parser"
)

// Check-in command flags.
var (
	checkinFlagStatus string
	checkinFlagDate   string
	checkinFlagNote   string
)

// checkinCmd represents the checkin command.
var checkinCmd = &cobra.Command{
	Use:     "checkin NAMES...",
	Aliases: []string{"check", "ci", "in"},
	Short:   "Record attendance for one or more members",
	Long: `Record attendance for a batch of members. Names may be separated by
commas and/or spaces.

If any name is not a registered member, nothing is recorded. Members already
recorded for the date are reported and skipped while the rest are recorded.

Examples:
  rollcall checkin Alice, Bob, Carol
  rollcall checkin "Alice,Bob" --status late
  rollcall checkin Dave --date yesterday --status absent --note "sick"`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeMembers,
	RunE:              runCheckIn,
}

func init() {
	checkinCmd.Flags().StringVarP(&checkinFlagStatus, "status", "s", string(model.StatusPresent), "Status: present, late, absent")
	checkinCmd.Flags().StringVarP(&checkinFlagDate, "date", "d", "today", "Session date")
	checkinCmd.Flags().StringVarP(&checkinFlagNote, "note", "n", "", "Note stored on every new record")

	checkinCmd.RegisterFlagCompletionFunc("status", completeStatuses)
	checkinCmd.RegisterFlagCompletionFunc("date", completeDates)

	rootCmd.AddCommand(checkinCmd)
}

func runCheckIn(cmd *cobra.Command, args []string) error {
	status, err := model.ParseStatus(checkinFlagStatus)
	if err != nil {
		return err
	}
	date, err := parseDate("date", checkinFlagDate)
	if err != nil {
		return err
	}

	results, err := ctx.System.CheckIn(ctx.Request(), ledger.CheckIn{
		Names:  parser.JoinArgs(args),
		Status: status,
		Date:   date,
		Note:   checkinFlagNote,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCheckIn(results)
	}
	ctx.CLIFormatter().PrintCheckIn(results)
	return nil
}
