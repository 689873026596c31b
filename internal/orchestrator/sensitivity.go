package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scachelab/shufflebench/internal/cluster"
	"github.com/scachelab/shufflebench/internal/confrewrite"
	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/results"
	"github.com/scachelab/shufflebench/internal/sweep"
	"github.com/scachelab/shufflebench/internal/variant"
)

// SensitivitySpec selects the sweep dimension and its values.
type SensitivitySpec struct {
	Options

	// Sweep is the dimension to vary.
	Sweep sweep.Kind

	// Values are processed in exactly this order; the harness never sorts
	// or deduplicates them.
	Values []string
}

// RunSensitivity executes a parameter sweep over the base variant. For each
// value, a configuration directory is generated when the sweep mutates
// configuration, the cluster is optionally cycled against it, and N repeats
// are recorded.
func (o *Orchestrator) RunSensitivity(ctx context.Context, spec SensitivitySpec) error {
	if len(spec.Values) == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "sensitivity sweep needs at least one value")
	}
	for _, value := range spec.Values {
		if err := spec.Sweep.Validate(value); err != nil {
			return err
		}
	}

	base, err := variant.Lookup(o.cfg.Conf.BaseDir, "ultrashuffle-full")
	if err != nil {
		return err
	}
	baseConf := filepath.Join(base.ConfDir, constants.SCacheConfFileName)
	if spec.Sweep.MutatesConfig() {
		if info, statErr := os.Stat(baseConf); statErr != nil || info.IsDir() {
			return errors.Wrapf(errors.ErrBaseConfMissing, "%s", baseConf)
		}
	}
	if err := o.preflight(); err != nil {
		return err
	}

	root, err := o.resultsRoot(spec.Options)
	if err != nil {
		return err
	}
	sweepRoot := filepath.Join(root, "sensitivity-"+string(spec.Sweep))
	if err := os.MkdirAll(sweepRoot, constants.DirPerm); err != nil {
		return errors.Wrapf(err, "creating sweep dir %s", sweepRoot)
	}

	store := results.NewCSVStore(filepath.Join(sweepRoot, constants.SensitivityCSVFileName), results.SensitivityHeader())
	ix := o.openIndex(root)
	defer func() { _ = ix.Close() }()

	experimentID := newExperimentID()
	ctrl := o.cluster()
	baseArgs := o.workloadArgs(spec.Options)
	repeats := o.repeats(spec.Options)

	o.logger.Info().
		Str("experiment_id", experimentID).
		Str("results_root", root).
		Str("sweep", string(spec.Sweep)).
		Strs("values", spec.Values).
		Int("repeats", repeats).
		Msg("starting sensitivity sweep")

	for _, value := range spec.Values {
		updates := spec.Sweep.ConfUpdates(value)
		workloadArgs := spec.Sweep.WorkloadArgs(value, baseArgs)

		// Generated configuration is scoped per value and never reused,
		// so values cannot contaminate each other.
		confDir := base.ConfDir
		if len(updates) > 0 {
			confDir = filepath.Join(sweepRoot, constants.GeneratedConfDirName, value)
			if err := o.generateConf(baseConf, base.ConfDir, confDir, updates); err != nil {
				return err
			}
		}

		if spec.RestartCluster && !spec.RestartEachRepeat {
			if err := ctrl.Cycle(ctx, confDir, valueCycleLogs(sweepRoot, value)); err != nil {
				return err
			}
		}

		for rep := 0; rep < repeats; rep++ {
			runDir := filepath.Join(sweepRoot, constants.SweepRunsDirName, value, runDirName(rep))
			if err := os.MkdirAll(runDir, constants.DirPerm); err != nil {
				return errors.Wrapf(err, "creating run dir %s", runDir)
			}

			if spec.RestartCluster && spec.RestartEachRepeat {
				if err := ctrl.Cycle(ctx, confDir, cycleLogs(runDir)); err != nil {
					return err
				}
			}

			appName := fmt.Sprintf("sensitivity-%s-%s", spec.Sweep, value)
			out, err := o.executeRun(ctx, runDir, appName, nil, workloadArgs)
			if err != nil {
				return err
			}

			snap := runSnapshot{
				ExperimentID:         experimentID,
				Sweep:                string(spec.Sweep),
				Value:                value,
				Repeat:               rep,
				SubmitCmd:            out.SubmitCmd,
				SparkSubmitExtraArgs: out.ExtraArgs,
				SCacheConfDir:        confDir,
				SCacheConfUpdates:    updates,
				RestartCluster:       spec.RestartCluster,
				ExitCode:             out.ExitCode,
				SubmitElapsedS:       out.ElapsedS,
				EventLogSummary:      out.Summary,
			}
			if out.EventLogPath != "" {
				snap.EventLog = &out.EventLogPath
			}

			appDuration, writeBytes, readBytes := metricColumns(out.Summary)
			row := map[string]string{
				"sweep":               string(spec.Sweep),
				"value":               value,
				"repeat":              strconv.Itoa(rep),
				"exit_code":           strconv.Itoa(out.ExitCode),
				"submit_elapsed_s":    fmt.Sprintf("%.3f", out.ElapsedS),
				"app_duration_ms":     appDuration,
				"shuffle_write_bytes": writeBytes,
				"shuffle_read_bytes":  readBytes,
				"eventlog":            out.EventLogPath,
			}

			if err := o.record(ctx, ix, store, runDir, "sensitivity", snap, row); err != nil {
				return err
			}
		}
	}

	o.logger.Info().Str("summary", store.Path()).Msg("sensitivity sweep complete")
	return nil
}

// generateConf writes the per-value configuration directory: the rewritten
// scache.conf plus a verbatim copy of the slaves file when the base conf
// dir carries one.
func (o *Orchestrator) generateConf(baseConf, baseConfDir, confDir string, updates map[string]string) error {
	if err := confrewrite.Rewrite(baseConf, filepath.Join(confDir, constants.SCacheConfFileName), updates); err != nil {
		return err
	}
	slaves := filepath.Join(baseConfDir, constants.SlavesFileName)
	if info, err := os.Stat(slaves); err == nil && !info.IsDir() {
		return confrewrite.CopyFile(slaves, filepath.Join(confDir, constants.SlavesFileName))
	}
	return nil
}

// valueCycleLogs names the per-value cluster capture files at the sweep
// root.
func valueCycleLogs(sweepRoot, value string) cluster.LogPaths {
	return cluster.LogPaths{
		StopStdout:  filepath.Join(sweepRoot, "cluster-stop."+value+".stdout.log"),
		StopStderr:  filepath.Join(sweepRoot, "cluster-stop."+value+".stderr.log"),
		StartStdout: filepath.Join(sweepRoot, "cluster-start."+value+".stdout.log"),
		StartStderr: filepath.Join(sweepRoot, "cluster-start."+value+".stderr.log"),
	}
}
