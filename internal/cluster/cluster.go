// Package cluster sequences the lifecycle of the standalone multinode
// cluster around a configuration directory override.
//
// The stop and start scripts are opaque collaborators: the only observed
// contract is their exit code and captured output. Stop is best-effort (a
// running-but-unstoppable cluster must not block the experiment); a failed
// start is fatal because no run can proceed against it.
package cluster

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/runner"
)

// LogPaths names the four capture files for one stop/start cycle.
type LogPaths struct {
	StopStdout  string
	StopStderr  string
	StartStdout string
	StartStderr string
}

// Controller stops and starts the cluster via its external scripts.
type Controller struct {
	startScript string
	stopScript  string
	workDir     string
	logger      zerolog.Logger
}

// New returns a Controller invoking the given scripts from workDir.
func New(startScript, stopScript, workDir string, logger zerolog.Logger) *Controller {
	return &Controller{
		startScript: startScript,
		stopScript:  stopScript,
		workDir:     workDir,
		logger:      logger.With().Str("component", "cluster").Logger(),
	}
}

// Cycle stops the cluster (exit code ignored) and then starts it (exit code
// fatal), communicating confDir to both scripts through the
// SCACHE_CONF_OVERRIDE_DIR environment variable.
func (c *Controller) Cycle(ctx context.Context, confDir string, logs LogPaths) error {
	env := map[string]string{constants.ConfOverrideEnvVar: confDir}

	stopRes, err := runner.Run(ctx, c.logger, runner.Spec{
		Argv:       []string{c.stopScript},
		Dir:        c.workDir,
		Env:        env,
		StdoutPath: logs.StopStdout,
		StderrPath: logs.StopStderr,
	})
	if err != nil {
		// Could not even invoke the stop script. Still best-effort: the
		// cluster may simply not be running yet.
		c.logger.Warn().Err(err).Msg("cluster stop invocation failed")
	} else if stopRes.ExitCode != 0 {
		c.logger.Warn().Int("exit_code", stopRes.ExitCode).Msg("cluster stop exited non-zero, continuing")
	}

	startRes, err := runner.Run(ctx, c.logger, runner.Spec{
		Argv:        []string{c.startScript},
		Dir:         c.workDir,
		Env:         env,
		StdoutPath:  logs.StartStdout,
		StderrPath:  logs.StartStderr,
		MustSucceed: true,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrClusterStartFailed, "conf dir %s: %v", confDir, err)
	}

	c.logger.Info().
		Str("conf_dir", confDir).
		Float64("start_elapsed_s", startRes.ElapsedSeconds()).
		Msg("cluster restarted")
	return nil
}
