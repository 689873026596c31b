package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scachelab/shufflebench/internal/clock"
	"github.com/scachelab/shufflebench/internal/config"
	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/orchestrator"
	"github.com/scachelab/shufflebench/internal/variant"
)

// experimentFlags holds the flags shared by the ablation and sensitivity
// commands.
type experimentFlags struct {
	out               string
	repeats           int
	workloadArgs      []string
	noRestartCluster  bool
	restartEachRepeat bool
}

// addExperimentFlags registers the shared experiment flags on cmd.
func addExperimentFlags(cmd *cobra.Command, flags *experimentFlags) {
	cmd.Flags().StringVar(&flags.out, "out", "", "results directory (default: timestamped under the configured results root)")
	cmd.Flags().IntVar(&flags.repeats, "repeats", 0, "repeats per configuration (default: from config)")
	cmd.Flags().StringSliceVar(&flags.workloadArgs, "workload-args", nil, "workload arguments: numMappers,numKVPairs,valSize,numReducers")
	cmd.Flags().BoolVar(&flags.noRestartCluster, "no-restart-cluster", false, "reuse the running cluster instead of cycling it per configuration")
	cmd.Flags().BoolVar(&flags.restartEachRepeat, "restart-each-repeat", false, "cycle the cluster before every repeat, not just per configuration")
}

// options converts the parsed flags into orchestrator options, validating
// the workload argument vector when one was given.
func (f *experimentFlags) options() (orchestrator.Options, error) {
	if len(f.workloadArgs) > 0 && len(f.workloadArgs) != constants.WorkloadArgCount {
		return orchestrator.Options{}, errors.Wrapf(errors.ErrInvalidArgument,
			"--workload-args needs exactly %d values, got %d", constants.WorkloadArgCount, len(f.workloadArgs))
	}
	return orchestrator.Options{
		OutDir:            f.out,
		Repeats:           f.repeats,
		RestartCluster:    !f.noRestartCluster,
		RestartEachRepeat: f.restartEachRepeat,
		WorkloadArgs:      f.workloadArgs,
	}, nil
}

// AddAblationCommand adds the ablation command to the root command.
func AddAblationCommand(root *cobra.Command) {
	flags := &experimentFlags{}
	var variants []string

	cmd := &cobra.Command{
		Use:   "ablation",
		Short: "Run the ablation experiment across design variants",
		Long: `Run every design variant (or a selected subset) against the deployed
cluster, cycling it between variants and recording each repeat's exit
code, elapsed time, and event-log telemetry.

Known variants: ` + strings.Join(variant.Names(), ", ") + `

Examples:
  shufflebench ablation
  shufflebench ablation --variants ultrashuffle-full,no-remote-cache --repeats 5
  shufflebench ablation --out ./results/smoke --no-restart-cluster`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAblation(cmd.Context(), flags, variants)
		},
	}

	addExperimentFlags(cmd, flags)
	cmd.Flags().StringSliceVar(&variants, "variants", nil, "variants to run, in order (default: all)")

	root.AddCommand(cmd)
}

// runAblation executes the ablation command.
func runAblation(ctx context.Context, flags *experimentFlags, variants []string) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	orch := orchestrator.New(cfg, clock.RealClock{}, GetLogger())
	return orch.RunAblation(ctx, orchestrator.AblationSpec{
		Options:  opts,
		Variants: variants,
	})
}
