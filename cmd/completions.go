package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/config"
	"github.com/manav03panchal/rollcall/internal/model"
)

// completeMembers returns registered member names with their department.
func completeMembers(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.System == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	members, err := ctx.System.ListMembers(ctx.Request())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, m := range members {
		if strings.HasPrefix(m.Name, toComplete) {
			completions = append(completions, m.Name+"\t"+string(m.Department))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeDepartments returns the configured departments.
func completeDepartments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var depts []model.Department
	if ctx != nil && ctx.System != nil {
		depts = ctx.System.Departments().List()
	} else if d, err := loadDepartments(); err == nil {
		depts = d.List()
	}

	var completions []string
	for _, d := range depts {
		if strings.HasPrefix(string(d), toComplete) {
			completions = append(completions, string(d))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeStatuses returns the attendance statuses.
func completeStatuses(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, s := range model.AllStatuses {
		if strings.HasPrefix(string(s), toComplete) {
			completions = append(completions, string(s))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeDates suggests relative date phrases.
func completeDates(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	phrases := []string{
		"today\tthis session",
		"yesterday\tthe day before",
		"last friday\tmost recent Friday",
		"last saturday\tmost recent Saturday",
	}

	var filtered []string
	for _, p := range phrases {
		if strings.HasPrefix(strings.Split(p, "\t")[0], toComplete) {
			filtered = append(filtered, p)
		}
	}
	return filtered, cobra.ShellCompDirectiveNoFileComp
}

// completeMemberAdd completes NAME (nothing) then DEPARTMENT.
func completeMemberAdd(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 1 {
		return completeDepartments(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeModifyArgs completes DATE, NAME and STATUS in turn.
func completeModifyArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeDates(cmd, args, toComplete)
	case 1:
		return completeMembers(cmd, args, toComplete)
	case 2:
		return completeStatuses(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// completeFirstArg applies fn to the first positional argument only.
func completeFirstArg(fn cobra.CompletionFunc) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return fn(cmd, args, toComplete)
	}
}

// fixedCompletions completes from a fixed list of values.
func fixedCompletions(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// loadDepartments resolves the department set without opening the data
// directory.
func loadDepartments() (model.Departments, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return model.Departments{}, err
	}
	return cfg.DepartmentSet()
}
