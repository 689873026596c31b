package config

import (
	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// Validate checks a Config for values the orchestrator cannot work with.
// It does not stat the external scripts; existence is a pre-flight check at
// experiment start, when the effective paths are final.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if cfg.Scripts.Start == "" || cfg.Scripts.Stop == "" || cfg.Scripts.Submit == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "scripts.start, scripts.stop, and scripts.submit must be set")
	}
	if cfg.Conf.BaseDir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "conf.base_dir must be set")
	}
	if cfg.Workload.Repeats < 1 {
		return errors.Wrapf(errors.ErrConfigInvalid, "workload.repeats must be >= 1, got %d", cfg.Workload.Repeats)
	}
	if len(cfg.Workload.Args) != constants.WorkloadArgCount {
		return errors.Wrapf(errors.ErrConfigInvalid, "workload.args must have exactly %d entries, got %d",
			constants.WorkloadArgCount, len(cfg.Workload.Args))
	}
	return nil
}
