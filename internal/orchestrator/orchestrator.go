// Package orchestrator drives experiments end to end: it sequences the
// cluster lifecycle, executes repeated workload runs, extracts telemetry
// from the captured event logs, and records every run in the result store.
//
// Execution is strictly sequential. Variants, sweep values, and repeats
// never overlap because they share one physical cluster whose configuration
// and processes must not be mutated under an in-flight run.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scachelab/shufflebench/internal/clock"
	"github.com/scachelab/shufflebench/internal/cluster"
	"github.com/scachelab/shufflebench/internal/config"
	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/eventlog"
	"github.com/scachelab/shufflebench/internal/results"
	"github.com/scachelab/shufflebench/internal/runner"
)

// Options are the caller-level knobs shared by both experiment kinds.
type Options struct {
	// OutDir is an explicit results root. Empty means a timestamped
	// directory under the configured results base.
	OutDir string

	// Repeats overrides the configured repeat count when > 0.
	Repeats int

	// RestartCluster cycles the cluster once per variant or sweep value.
	// Skippable when the caller already has a matching running cluster.
	RestartCluster bool

	// RestartEachRepeat additionally cycles the cluster before every
	// repeat, for experiments that must not carry warm state across runs.
	RestartEachRepeat bool

	// WorkloadArgs overrides the configured workload argument vector when
	// non-empty.
	WorkloadArgs []string
}

// Orchestrator runs experiments against one configured deployment.
type Orchestrator struct {
	cfg    *config.Config
	clk    clock.Clock
	logger zerolog.Logger
}

// New returns an Orchestrator for the given harness configuration.
func New(cfg *config.Config, clk clock.Clock, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		clk:    clk,
		logger: logger.With().Str("component", "orchestrator").Logger(),
	}
}

// repeats resolves the effective repeat count.
func (o *Orchestrator) repeats(opts Options) int {
	if opts.Repeats > 0 {
		return opts.Repeats
	}
	return o.cfg.Workload.Repeats
}

// workloadArgs resolves the effective workload argument vector.
func (o *Orchestrator) workloadArgs(opts Options) []string {
	if len(opts.WorkloadArgs) > 0 {
		return opts.WorkloadArgs
	}
	return o.cfg.Workload.Args
}

// resultsRoot resolves and creates the results root for one invocation.
func (o *Orchestrator) resultsRoot(opts Options) (string, error) {
	root := opts.OutDir
	if root == "" {
		root = filepath.Join(o.cfg.Results.Root, clock.ResultsStamp(o.clk))
	}
	if err := os.MkdirAll(root, constants.DirPerm); err != nil {
		return "", errors.Wrapf(err, "creating results root %s", root)
	}
	return root, nil
}

// preflight verifies the external scripts exist before any run is
// attempted. Missing scripts are fatal pre-flight errors.
func (o *Orchestrator) preflight() error {
	for _, script := range []string{
		o.cfg.Scripts.StartPath(),
		o.cfg.Scripts.StopPath(),
		o.cfg.Scripts.SubmitPath(),
	} {
		info, err := os.Stat(script)
		if err != nil || info.IsDir() {
			return errors.Wrapf(errors.ErrScriptNotFound, "%s", script)
		}
	}
	return nil
}

// cluster returns the lifecycle controller for this deployment.
func (o *Orchestrator) cluster() *cluster.Controller {
	return cluster.New(o.cfg.Scripts.StartPath(), o.cfg.Scripts.StopPath(), o.cfg.Scripts.Dir, o.logger)
}

// openIndex opens the sqlite run index at the results root. The index is
// additive bookkeeping; failure to open degrades to CSV-and-snapshots only.
func (o *Orchestrator) openIndex(root string) *results.RunIndex {
	ix, err := results.OpenRunIndex(filepath.Join(root, constants.RunIndexFileName))
	if err != nil {
		o.logger.Warn().Err(err).Msg("run index unavailable, continuing without it")
		return nil
	}
	return ix
}

// runSnapshot is the per-run structured record. One is written per run and
// never mutated again.
type runSnapshot struct {
	ExperimentID         string            `json:"experiment_id"`
	Variant              string            `json:"variant,omitempty"`
	Sweep                string            `json:"sweep,omitempty"`
	Value                string            `json:"value,omitempty"`
	Repeat               int               `json:"repeat"`
	SubmitCmd            []string          `json:"submit_cmd"`
	SparkSubmitExtraArgs string            `json:"spark_submit_extra_args"`
	SCacheConfDir        string            `json:"scache_conf_dir"`
	SCacheConfUpdates    map[string]string `json:"scache_conf_updates,omitempty"`
	RestartCluster       bool              `json:"restart_cluster"`
	ExitCode             int               `json:"exit_code"`
	SubmitElapsedS       float64           `json:"submit_elapsed_s"`
	EventLog             *string           `json:"eventlog"`
	EventLogSummary      *eventlog.Summary `json:"eventlog_summary"`
	Notes                string            `json:"notes,omitempty"`
}

// runOutcome is what one workload execution produced.
type runOutcome struct {
	SubmitCmd    []string
	ExtraArgs    string
	ExitCode     int
	ElapsedS     float64
	EventLogPath string // empty when no artifact exists
	Summary      *eventlog.Summary
}

// executeRun performs one workload run: submit, locate the telemetry
// artifact, extract, and write the derived summary file. A non-zero
// workload exit or a missing/unparseable artifact is recorded in the
// outcome, never returned as an error; only infrastructure failures
// (unwritable run dir) are errors.
func (o *Orchestrator) executeRun(ctx context.Context, runDir, appName string, extraOverrides map[string]string, workloadArgs []string) (runOutcome, error) {
	var out runOutcome

	eventsDir := filepath.Join(runDir, constants.EventLogDirName)
	if err := os.MkdirAll(eventsDir, constants.DirPerm); err != nil {
		return out, errors.Wrapf(err, "creating event log dir %s", eventsDir)
	}

	overrides := submitOverrides(appName, eventsDir, extraOverrides)
	out.ExtraArgs = SubmitExtraArgs(overrides)
	out.SubmitCmd = append([]string{o.cfg.Scripts.SubmitPath()}, workloadArgs...)

	res, err := runner.Run(ctx, o.logger, runner.Spec{
		Argv:       out.SubmitCmd,
		Dir:        o.cfg.Scripts.Dir,
		Env:        map[string]string{constants.SubmitExtraArgsEnvVar: out.ExtraArgs},
		StdoutPath: filepath.Join(runDir, "submit.stdout.log"),
		StderrPath: filepath.Join(runDir, "submit.stderr.log"),
	})
	if err != nil {
		return out, errors.Wrap(err, "invoking workload submission")
	}
	out.ExitCode = res.ExitCode
	out.ElapsedS = res.ElapsedSeconds()

	out.EventLogPath = runner.FindEventLog(eventsDir)
	if out.EventLogPath == "" {
		o.logger.Warn().Str("run_dir", runDir).Msg("no event log produced, metrics will be absent")
		return out, nil
	}

	summary, err := eventlog.Parse(out.EventLogPath)
	if err != nil {
		o.logger.Warn().Err(err).Str("eventlog", out.EventLogPath).Msg("telemetry extraction failed")
		return out, nil
	}
	out.Summary = summary

	if err := results.WriteJSON(filepath.Join(runDir, constants.EventLogSummaryFileName), summary); err != nil {
		o.logger.Warn().Err(err).Msg("writing telemetry summary failed")
	}

	evt := o.logger.Info().
		Int("exit_code", out.ExitCode).
		Float64("submit_elapsed_s", out.ElapsedS).
		Str("shuffle_write", humanize.IBytes(uint64(summary.ShuffleWriteBytesSum))).
		Str("shuffle_read", humanize.IBytes(uint64(summary.ShuffleReadBytesSum)))
	if summary.AppDurationMS != nil {
		evt = evt.Int64("app_duration_ms", *summary.AppDurationMS)
	}
	evt.Msg("run complete")

	return out, nil
}

// metricColumns projects the optional telemetry metrics into CSV cell
// values; absent metrics are empty strings, not zero.
func metricColumns(s *eventlog.Summary) (appDuration, writeBytes, readBytes string) {
	if s == nil {
		return "", "", ""
	}
	if s.AppDurationMS != nil {
		appDuration = strconv.FormatInt(*s.AppDurationMS, 10)
	}
	writeBytes = strconv.FormatInt(s.ShuffleWriteBytesSum, 10)
	readBytes = strconv.FormatInt(s.ShuffleReadBytesSum, 10)
	return appDuration, writeBytes, readBytes
}

// indexRecord builds the sqlite row for one run.
func indexRecord(experimentID, kind string, snap runSnapshot) results.RunRecord {
	rec := results.RunRecord{
		ExperimentID: experimentID,
		Kind:         kind,
		Variant:      snap.Variant,
		Sweep:        snap.Sweep,
		Value:        snap.Value,
		Repeat:       snap.Repeat,
		ExitCode:     snap.ExitCode,
		ElapsedS:     snap.SubmitElapsedS,
		Notes:        snap.Notes,
	}
	if snap.EventLog != nil {
		rec.EventLog = *snap.EventLog
	}
	if s := snap.EventLogSummary; s != nil {
		if s.AppDurationMS != nil {
			rec.AppDuration.Int64, rec.AppDuration.Valid = *s.AppDurationMS, true
		}
		rec.WriteBytes.Int64, rec.WriteBytes.Valid = s.ShuffleWriteBytesSum, true
		rec.ReadBytes.Int64, rec.ReadBytes.Valid = s.ShuffleReadBytesSum, true
	}
	return rec
}

// record persists one run everywhere it belongs: snapshot, CSV row, and
// (when available) the run index.
func (o *Orchestrator) record(ctx context.Context, ix *results.RunIndex, store *results.CSVStore, runDir, kind string, snap runSnapshot, row map[string]string) error {
	if err := results.WriteJSON(filepath.Join(runDir, constants.RunSnapshotFileName), snap); err != nil {
		return err
	}
	if err := store.Append(row); err != nil {
		return err
	}
	if ix != nil {
		rec := indexRecord(snap.ExperimentID, kind, snap)
		rec.CreatedAt = o.clk.Now()
		if err := ix.Record(ctx, rec); err != nil {
			o.logger.Warn().Err(err).Msg("run index write failed")
		}
	}
	return nil
}

// newExperimentID mints the invocation UUID shared by all of its runs.
func newExperimentID() string {
	return uuid.New().String()
}

// runDirName formats a repeat's directory name (run-000, run-001, ...).
func runDirName(repeat int) string {
	return fmt.Sprintf("run-%03d", repeat)
}
