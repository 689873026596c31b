package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scachelab/shufflebench/internal/clock"
	"github.com/scachelab/shufflebench/internal/config"
	"github.com/scachelab/shufflebench/internal/orchestrator"
	"github.com/scachelab/shufflebench/internal/sweep"
)

// AddSensitivityCommand adds the sensitivity command to the root command.
func AddSensitivityCommand(root *cobra.Command) {
	flags := &experimentFlags{}
	var (
		sweepName string
		values    []string
	)

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Run a parameter sensitivity sweep on the full design",
		Long: fmt.Sprintf(`Sweep one parameter dimension over a list of values, running the full
design at each point. Values are processed in the order given. Sweeps
that change daemon configuration get a generated configuration
directory per value and a cluster restart against it.

Sweep dimensions: %v

Examples:
  shufflebench sensitivity --sweep cxl-capacity --values 512m,1g,2g,4g
  shufflebench sensitivity --sweep align --values 64,512,4096 --repeats 5
  shufflebench sensitivity --sweep working-set-fit --values 100000,200000,400000`, sweep.Kinds()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSensitivity(cmd.Context(), flags, sweepName, values)
		},
	}

	addExperimentFlags(cmd, flags)
	cmd.Flags().StringVar(&sweepName, "sweep", "", "sweep dimension (required)")
	cmd.Flags().StringSliceVar(&values, "values", nil, "values to sweep, in order (required)")
	_ = cmd.MarkFlagRequired("sweep")
	_ = cmd.MarkFlagRequired("values")

	root.AddCommand(cmd)
}

// runSensitivity executes the sensitivity command.
func runSensitivity(ctx context.Context, flags *experimentFlags, sweepName string, values []string) error {
	opts, err := flags.options()
	if err != nil {
		return err
	}

	kind, err := sweep.ParseKind(sweepName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	orch := orchestrator.New(cfg, clock.RealClock{}, GetLogger())
	return orch.RunSensitivity(ctx, orchestrator.SensitivitySpec{
		Options: opts,
		Sweep:   kind,
		Values:  values,
	})
}
