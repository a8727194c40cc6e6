package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for rollcall. Member names,
departments, statuses and dates complete from the ledger.

To load completions:

Bash:
  $ source <(rollcall completion bash)

  # To load completions for each session, execute once:
  $ rollcall completion bash > /etc/bash_completion.d/rollcall

Zsh:
  $ rollcall completion zsh > "${fpath[1]}/_rollcall"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ rollcall completion fish | source

  # To load completions for each session, execute once:
  $ rollcall completion fish > ~/.config/fish/completions/rollcall.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}
