package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scachelab/shufflebench/internal/cluster"
	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/results"
	"github.com/scachelab/shufflebench/internal/variant"
)

// AblationSpec selects the variants to run and the shared options.
type AblationSpec struct {
	Options

	// Variants is the subset to run, in caller order. Empty runs the whole
	// registry in declaration order.
	Variants []string
}

// RunAblation executes the ablation experiment: for each variant, an
// optional cluster cycle followed by N recorded repeats.
//
// Unknown variant names and missing external scripts abort before any run.
// A failed mandatory cluster start aborts the remaining sequence; runs
// recorded before the failure remain valid on disk.
func (o *Orchestrator) RunAblation(ctx context.Context, spec AblationSpec) error {
	variants, err := variant.Resolve(o.cfg.Conf.BaseDir, spec.Variants)
	if err != nil {
		return err
	}
	if err := o.preflight(); err != nil {
		return err
	}

	root, err := o.resultsRoot(spec.Options)
	if err != nil {
		return err
	}

	store := results.NewCSVStore(filepath.Join(root, constants.AblationCSVFileName), results.AblationHeader())
	ix := o.openIndex(root)
	defer func() { _ = ix.Close() }()

	experimentID := newExperimentID()
	ctrl := o.cluster()
	workloadArgs := o.workloadArgs(spec.Options)
	repeats := o.repeats(spec.Options)

	o.logger.Info().
		Str("experiment_id", experimentID).
		Str("results_root", root).
		Int("variants", len(variants)).
		Int("repeats", repeats).
		Msg("starting ablation")

	for _, v := range variants {
		variantDir := filepath.Join(root, constants.AblationDirName, v.Name)
		if err := os.MkdirAll(variantDir, constants.DirPerm); err != nil {
			return errors.Wrapf(err, "creating variant dir %s", variantDir)
		}

		if spec.RestartCluster && !spec.RestartEachRepeat {
			if err := ctrl.Cycle(ctx, v.ConfDir, cycleLogs(variantDir)); err != nil {
				return err
			}
		}

		for rep := 0; rep < repeats; rep++ {
			runDir := filepath.Join(variantDir, runDirName(rep))
			if err := os.MkdirAll(runDir, constants.DirPerm); err != nil {
				return errors.Wrapf(err, "creating run dir %s", runDir)
			}

			if spec.RestartCluster && spec.RestartEachRepeat {
				if err := ctrl.Cycle(ctx, v.ConfDir, cycleLogs(runDir)); err != nil {
					return err
				}
			}

			out, err := o.executeRun(ctx, runDir, "ablation-"+v.Name, v.SubmitOverrides, workloadArgs)
			if err != nil {
				return err
			}

			snap := runSnapshot{
				ExperimentID:         experimentID,
				Variant:              v.Name,
				Repeat:               rep,
				SubmitCmd:            out.SubmitCmd,
				SparkSubmitExtraArgs: out.ExtraArgs,
				SCacheConfDir:        v.ConfDir,
				RestartCluster:       spec.RestartCluster,
				ExitCode:             out.ExitCode,
				SubmitElapsedS:       out.ElapsedS,
				EventLogSummary:      out.Summary,
				Notes:                v.Notes,
			}
			if out.EventLogPath != "" {
				snap.EventLog = &out.EventLogPath
			}

			appDuration, writeBytes, readBytes := metricColumns(out.Summary)
			row := map[string]string{
				"variant":             v.Name,
				"repeat":              strconv.Itoa(rep),
				"exit_code":           strconv.Itoa(out.ExitCode),
				"submit_elapsed_s":    fmt.Sprintf("%.3f", out.ElapsedS),
				"app_duration_ms":     appDuration,
				"shuffle_write_bytes": writeBytes,
				"shuffle_read_bytes":  readBytes,
				"eventlog":            out.EventLogPath,
				"notes":               v.Notes,
			}

			if err := o.record(ctx, ix, store, runDir, "ablation", snap, row); err != nil {
				return err
			}
		}
	}

	o.logger.Info().Str("summary", store.Path()).Msg("ablation complete")
	return nil
}

// cycleLogs names the cluster stop/start capture files under dir.
func cycleLogs(dir string) cluster.LogPaths {
	return cluster.LogPaths{
		StopStdout:  filepath.Join(dir, "cluster-stop.stdout.log"),
		StopStderr:  filepath.Join(dir, "cluster-stop.stderr.log"),
		StartStdout: filepath.Join(dir, "cluster-start.stdout.log"),
		StartStderr: filepath.Join(dir, "cluster-start.stderr.log"),
	}
}
