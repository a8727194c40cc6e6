package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/rollcall/internal/config"
	"github.com/manav03panchal/rollcall/internal/output"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Show the resolved configuration",
	Long: `Show the configuration rollcall runs with, after applying the config
file, ROLLCALL_* environment variables and command-line flags.

Keys:
  data_dir        Directory holding the stores
  backend         Storage backend: file, badger, sqlite
  departments     The closed department set
  log_level       debug, info, warn, error
  min_free_space  Free bytes required before writing

Examples:
  rollcall config
  rollcall config path
  ROLLCALL_DEPARTMENTS=Locking,House rollcall config`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

// departmentsCmd lists the configured departments.
var departmentsCmd = &cobra.Command{
	Use:     "departments",
	Aliases: []string{"depts", "dept"},
	Short:   "List the configured departments",
	Args:    cobra.NoArgs,
	RunE:    runDepartments,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(departmentsCmd)
}

// resolvedConfig loads and validates configuration without opening storage.
func resolvedConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	cfg.Apply(config.Overrides{DataDir: flagDataDir, Backend: flagBackend})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// standaloneFormatter builds a formatter for commands that run without a
// runtime context.
func standaloneFormatter(cmd *cobra.Command) *output.Formatter {
	f := output.NewFormatter()
	f.Writer = cmd.OutOrStdout()
	f.Format = output.ParseFormat(flagFormat)
	f.ColorMode = output.ParseColorMode(flagColor)
	return f
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := resolvedConfig()
	if err != nil {
		return err
	}

	f := standaloneFormatter(cmd)
	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{
			"source":         cfg.Source,
			"data_dir":       cfg.DataDir,
			"backend":        cfg.Backend,
			"departments":    cfg.Departments,
			"log_level":      cfg.LogLevel,
			"min_free_space": cfg.MinFreeSpace,
		})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		f.Printf("# from %s\n", cfg.Source)
	} else {
		f.Println("# defaults (no config file)")
	}
	f.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	path := cfg.Source
	if path == "" {
		path = config.DefaultPath()
	}

	f := standaloneFormatter(cmd)
	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"path": path, "exists": cfg.Source != ""})
	}
	f.Println(path)
	return nil
}

func runDepartments(cmd *cobra.Command, args []string) error {
	depts, err := loadDepartments()
	if err != nil {
		return err
	}

	f := standaloneFormatter(cmd)
	if f.Format == output.FormatJSON {
		return output.NewJSONFormatter(f).PrintDepartments(depts.List())
	}
	output.NewCLIFormatter(f).PrintDepartments(depts.List())
	return nil
}

