package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/eventlog"
	"github.com/scachelab/shufflebench/internal/runner"
)

// AddParseCommand adds the parse command to the root command.
func AddParseCommand(root *cobra.Command) {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "parse <eventlog-or-run-dir>",
		Short: "Extract a telemetry summary from a Spark event log",
		Long: `Parse a Spark event log and print the derived telemetry summary as JSON:
application identity and duration, per-stage task counts and shuffle
metrics, and shuffle byte totals.

The argument is either an event log file or a run directory, in which
case the newest event log inside it is used (completed logs preferred
over in-progress ones).

Examples:
  shufflebench parse ./results/ablation/ultrashuffle-full/run-000/spark-events/app-123
  shufflebench parse ./results/ablation/ultrashuffle-full/run-000 --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args[0], pretty)
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")

	root.AddCommand(cmd)
}

// runParse executes the parse command.
func runParse(w io.Writer, path string, pretty bool) error {
	logPath, err := resolveEventLog(path)
	if err != nil {
		return err
	}

	summary, err := eventlog.Parse(logPath)
	if err != nil {
		return err
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(summary, "", "  ")
	} else {
		out, err = json.Marshal(summary)
	}
	if err != nil {
		return errors.Wrap(err, "encoding summary")
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}

// resolveEventLog maps the command argument to an event log file: the
// argument itself when it is a regular file, or the newest event log inside
// it when it is a run or spark-events directory.
func resolveEventLog(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrNotAFile, "%s", path)
	}
	if !info.IsDir() {
		return path, nil
	}

	// A run directory keeps its logs under spark-events; a spark-events
	// directory holds them directly.
	for _, dir := range []string{filepath.Join(path, constants.EventLogDirName), path} {
		if logPath := runner.FindEventLog(dir); logPath != "" {
			return logPath, nil
		}
	}
	return "", errors.Wrapf(errors.ErrNoEventLog, "no event log under %s", path)
}
