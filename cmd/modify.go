package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
)

// modifyCmd represents the modify command.
var modifyCmd = &cobra.Command{
	Use:     "modify DATE NAME STATUS",
	Aliases: []string{"fix", "correct", "edit"},
	Short:   "Correct the status of an existing record",
	Long: `Change the status of the attendance record for NAME on DATE. The record
must already exist; use checkin to create one.

Examples:
  rollcall modify 2024-03-01 Alice late
  rollcall modify yesterday Bob present`,
	Args:              cobra.ExactArgs(3),
	ValidArgsFunction: completeModifyArgs,
	RunE:              runModify,
}

func init() {
	rootCmd.AddCommand(modifyCmd)
}

func runModify(cmd *cobra.Command, args []string) error {
	date, err := parseDate("date", args[0])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(args[2])
	if err != nil {
		return err
	}

	rec, err := ctx.System.ModifyStatus(ctx.Request(), date, args[1], status)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintModified(rec)
	}
	ctx.CLIFormatter().PrintModified(rec)
	return nil
}
