package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
)

// Records command flags.
var (
	recordsFlagDate  string
	recordsFlagFrom  string
	recordsFlagUntil string
)

// recordsCmd represents the records command.
var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"rec", "ls", "view"},
	Short:   "List attendance records",
	Long: `List attendance records for one date, a date range, or everything.

Examples:
  rollcall records
  rollcall records --date today
  rollcall records --from 2024-03-01 --until 2024-03-31`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().StringVarP(&recordsFlagDate, "date", "d", "", "Only this date")
	recordsCmd.Flags().StringVar(&recordsFlagFrom, "from", "", "Start of range (inclusive)")
	recordsCmd.Flags().StringVar(&recordsFlagUntil, "until", "", "End of range (inclusive)")
	recordsCmd.MarkFlagsMutuallyExclusive("date", "from")
	recordsCmd.MarkFlagsMutuallyExclusive("date", "until")

	recordsCmd.RegisterFlagCompletionFunc("date", completeDates)
	recordsCmd.RegisterFlagCompletionFunc("from", completeDates)
	recordsCmd.RegisterFlagCompletionFunc("until", completeDates)

	rootCmd.AddCommand(recordsCmd)
}

func runRecords(cmd *cobra.Command, args []string) error {
	var (
		records []model.Record
		err     error
	)

	if recordsFlagFrom != "" || recordsFlagUntil != "" {
		records, err = recordsInRange(recordsFlagFrom, recordsFlagUntil)
	} else {
		var date string
		date, err = parseOptionalDate("date", recordsFlagDate)
		if err == nil {
			records, err = ctx.System.RecordsForDate(ctx.Request(), date)
		}
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintRecords(records)
	}
	ctx.CLIFormatter().PrintRecords(records)
	return nil
}

func recordsInRange(fromFlag, untilFlag string) ([]model.Record, error) {
	from, err := parseOptionalDate("from", fromFlag)
	if err != nil {
		return nil, err
	}
	until, err := parseOptionalDate("until", untilFlag)
	if err != nil {
		return nil, err
	}
	return ctx.System.RecordsInRange(ctx.Request(), from, until)
}
