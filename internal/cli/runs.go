package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/results"
)

// AddRunsCommand adds the runs command to the root command.
func AddRunsCommand(root *cobra.Command) {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs <results-root>",
		Short: "List recorded runs from a results directory",
		Long: `List the runs recorded in a results directory's run index, oldest
first. Use --db to point at an index file directly instead of a
results root.

Examples:
  shufflebench runs ./results/20260829-143000
  shufflebench runs ./results/20260829-143000 -o json
  shufflebench runs --db ./archive/runs.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				if len(args) == 0 {
					return errors.Wrap(errors.ErrInvalidArgument, "needs a results root argument or --db")
				}
				path = filepath.Join(args[0], constants.RunIndexFileName)
			}
			output := cmd.Flag("output").Value.String()
			return runRuns(cmd.Context(), cmd.OutOrStdout(), path, output)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "run index file (overrides the results root argument)")

	root.AddCommand(cmd)
}

// runRow is the JSON shape of one listed run. Optional telemetry fields are
// pointers so absent metrics serialize as null.
type runRow struct {
	ExperimentID string    `json:"experiment_id"`
	Kind         string    `json:"kind"`
	Variant      string    `json:"variant,omitempty"`
	Sweep        string    `json:"sweep,omitempty"`
	Value        string    `json:"value,omitempty"`
	Repeat       int       `json:"repeat"`
	ExitCode     int       `json:"exit_code"`
	ElapsedS     float64   `json:"elapsed_s"`
	AppDuration  *int64    `json:"app_duration_ms"`
	WriteBytes   *int64    `json:"shuffle_write_bytes"`
	ReadBytes    *int64    `json:"shuffle_read_bytes"`
	EventLog     string    `json:"eventlog,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// runRuns executes the runs command against the index at path.
func runRuns(ctx context.Context, w io.Writer, path, output string) error {
	ix, err := results.OpenRunIndex(path)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	records, err := ix.List(ctx)
	if err != nil {
		return err
	}

	if output == OutputJSON {
		return writeRunsJSON(w, records)
	}
	return writeRunsTable(w, records)
}

// writeRunsJSON prints the records as a JSON array.
func writeRunsJSON(w io.Writer, records []results.RunRecord) error {
	rows := make([]runRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, runRow{
			ExperimentID: rec.ExperimentID,
			Kind:         rec.Kind,
			Variant:      rec.Variant,
			Sweep:        rec.Sweep,
			Value:        rec.Value,
			Repeat:       rec.Repeat,
			ExitCode:     rec.ExitCode,
			ElapsedS:     rec.ElapsedS,
			AppDuration:  nullableInt64(rec.AppDuration),
			WriteBytes:   nullableInt64(rec.WriteBytes),
			ReadBytes:    nullableInt64(rec.ReadBytes),
			EventLog:     rec.EventLog,
			Notes:        rec.Notes,
			CreatedAt:    rec.CreatedAt,
		})
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding runs")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeRunsTable prints the records as an aligned text table.
func writeRunsTable(w io.Writer, records []results.RunRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tCONFIGURATION\tREPEAT\tEXIT\tELAPSED\tAPP MS\tCREATED")
	for _, rec := range records {
		conf := rec.Variant
		if rec.Kind == "sensitivity" {
			conf = rec.Sweep + "=" + rec.Value
		}
		appMS := "-"
		if rec.AppDuration.Valid {
			appMS = fmt.Sprintf("%d", rec.AppDuration.Int64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1fs\t%s\t%s\n",
			rec.Kind, conf, rec.Repeat, rec.ExitCode, rec.ElapsedS, appMS,
			rec.CreatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// nullableInt64 converts a sql.NullInt64 to a pointer for JSON output.
func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
