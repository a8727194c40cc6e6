package cmd

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/rollcall/internal/model"
	"github.com/manav03panchal/rollcall/internal/storage"
)

// Export command flags.
var (
	exportFlagFrom   string
	exportFlagUntil  string
	exportFlagAs     string
	exportFlagBackup bool
	exportFlagOutput string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"ex", "dump"},
	Short:   "Export attendance data",
	Long: `Export attendance records as CSV or JSON, optionally limited to a date
range, or write a full JSON backup of members and records.

Examples:
  rollcall export
  rollcall export --as csv -o march.csv --from 2024-03-01 --until 2024-03-31
  rollcall export --backup -o backup.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlagFrom, "from", "", "Start of range (inclusive)")
	exportCmd.Flags().StringVar(&exportFlagUntil, "until", "", "End of range (inclusive)")
	exportCmd.Flags().StringVar(&exportFlagAs, "as", "json", "Export format: json, csv")
	exportCmd.Flags().BoolVarP(&exportFlagBackup, "backup", "b", false, "Full backup of members and records")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")
	exportCmd.MarkFlagsMutuallyExclusive("backup", "as")

	exportCmd.RegisterFlagCompletionFunc("as", fixedCompletions("json", "csv"))
	exportCmd.RegisterFlagCompletionFunc("from", completeDates)
	exportCmd.RegisterFlagCompletionFunc("until", completeDates)

	rootCmd.AddCommand(exportCmd)
}

// recordsExport is the JSON export envelope.
type recordsExport struct {
	Version    string         `json:"version"`
	ExportedAt string         `json:"exported_at"`
	Records    []model.Record `json:"records"`
	Count      int            `json:"count"`
}

// backupExport is the full backup envelope.
type backupExport struct {
	Version     string             `json:"version"`
	ExportedAt  string             `json:"exported_at"`
	Departments []model.Department `json:"departments"`
	Members     []model.Member     `json:"members"`
	Records     []model.Record     `json:"records"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFlagBackup {
		return runBackup(cmd)
	}

	records, err := recordsInRange(exportFlagFrom, exportFlagUntil)
	if err != nil {
		return err
	}

	w, closeFn, err := exportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	switch exportFlagAs {
	case "csv":
		err = storage.WriteRecordsCSV(w, records)
	default:
		if records == nil {
			records = []model.Record{}
		}
		err = writeJSON(w, recordsExport{
			Version:    "1",
			ExportedAt: now().Format(time.RFC3339),
			Records:    records,
			Count:      len(records),
		})
	}
	if err != nil {
		return err
	}

	if exportFlagOutput != "" && !ctx.IsJSON() {
		ctx.CLIFormatter().Success("Exported " + formatCount(len(records), "record") + " to " + exportFlagOutput)
	}
	return nil
}

func runBackup(cmd *cobra.Command) error {
	members, err := ctx.System.ListMembers(ctx.Request())
	if err != nil {
		return err
	}
	records, err := ctx.System.RecordsForDate(ctx.Request(), "")
	if err != nil {
		return err
	}
	if members == nil {
		members = []model.Member{}
	}
	if records == nil {
		records = []model.Record{}
	}

	w, closeFn, err := exportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	err = writeJSON(w, backupExport{
		Version:     "1",
		ExportedAt:  now().Format(time.RFC3339),
		Departments: ctx.System.Departments().List(),
		Members:     members,
		Records:     records,
	})
	if err != nil {
		return err
	}

	// Print summary if writing to file
	if exportFlagOutput != "" && !ctx.IsJSON() {
		cli := ctx.CLIFormatter()
		cli.Success("Backup created: " + exportFlagOutput)
		cli.Printf("  Members: %d\n", len(members))
		cli.Printf("  Records: %d\n", len(records))
	}
	return nil
}

// exportWriter opens --output, or returns the command's stdout.
func exportWriter(cmd *cobra.Command) (io.Writer, func(), error) {
	if exportFlagOutput == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(exportFlagOutput)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
