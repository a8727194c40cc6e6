package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
)

// memberCmd represents the member command.
var memberCmd = &cobra.Command{
	Use:     "member",
	Aliases: []string{"members", "mem", "m"},
	Short:   "Manage club members",
	Long: `List registered members, or add and remove them.

Examples:
  rollcall member
  rollcall member add Alice House
  rollcall member remove Alice`,
	Args: cobra.NoArgs,
	RunE: runMemberList,
}

// memberListCmd lists members.
var memberListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered members",
	Args:    cobra.NoArgs,
	RunE:    runMemberList,
}

// memberAddCmd registers a member.
var memberAddCmd = &cobra.Command{
	Use:   "add NAME DEPARTMENT",
	Short: "Register a new member",
	Long: `Register a new member in one of the configured departments.
Names are case-sensitive and may not contain commas or spaces.

Examples:
  rollcall member add Alice House
  rollcall member add Kim_Minji Locking`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeMemberAdd,
	RunE:              runMemberAdd,
}

// memberRemoveCmd unregisters a member.
var memberRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a member",
	Long: `Remove a member from the registry. Their attendance records are kept
and still show up in date listings and club-wide statistics.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeFirstArg(completeMembers),
	RunE:              runMemberRemove,
}

func init() {
	memberCmd.AddCommand(memberListCmd)
	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberRemoveCmd)
	rootCmd.AddCommand(memberCmd)
}

func runMemberList(cmd *cobra.Command, args []string) error {
	members, err := ctx.System.ListMembers(ctx.Request())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMembers(members)
	}
	ctx.CLIFormatter().PrintMembers(members)
	return nil
}

func runMemberAdd(cmd *cobra.Command, args []string) error {
	m, err := ctx.System.AddMember(ctx.Request(), args[0], model.Department(args[1]))
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMemberAdded(m)
	}
	ctx.CLIFormatter().PrintMemberAdded(m)
	return nil
}

func runMemberRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	removed, err := ctx.System.RemoveMember(ctx.Request(), name)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintMemberRemoved(name, removed)
	}
	ctx.CLIFormatter().PrintMemberRemoved(name, removed)
	return nil
}
