// Package runner executes the external collaborator processes (cluster
// lifecycle scripts, workload submission) with captured output, and locates
// the telemetry artifact a run leaves behind.
package runner

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// Spec describes one child process invocation.
type Spec struct {
	// Argv is the command and its arguments. Argv[0] is the executable.
	Argv []string

	// Dir is the working directory for the child.
	Dir string

	// Env is an overlay applied on top of the current process environment.
	Env map[string]string

	// StdoutPath and StderrPath receive the child's output streams.
	// Parent directories are created before the child starts.
	StdoutPath string
	StderrPath string

	// MustSucceed turns a non-zero exit into an error. When false the exit
	// code is returned for the caller to record.
	MustSucceed bool
}

// Result reports how one child process invocation went.
type Result struct {
	// ExitCode is the child's exit code, or -1 if it never ran.
	ExitCode int

	// Elapsed is the wall-clock duration from start to exit.
	Elapsed time.Duration
}

// ElapsedSeconds returns the wall-clock duration in seconds.
func (r Result) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Run executes the command described by spec and blocks until it exits.
//
// A non-zero exit is an error only when spec.MustSucceed is set; otherwise
// it is recorded in the Result for the caller. Failure to start the child
// at all (missing executable, unreadable output path) is always an error.
func Run(ctx context.Context, logger zerolog.Logger, spec Spec) (Result, error) {
	res := Result{ExitCode: -1}

	stdout, err := openOutput(spec.StdoutPath)
	if err != nil {
		return res, err
	}
	defer func() { _ = stdout.Close() }()

	stderr, err := openOutput(spec.StderrPath)
	if err != nil {
		return res, err
	}
	defer func() { _ = stderr.Close() }()

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...) //#nosec G204 -- argv is constructed internally, not user input
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = overlayEnv(spec.Env)

	logger.Debug().
		Strs("argv", spec.Argv).
		Str("dir", spec.Dir).
		Str("stdout", spec.StdoutPath).
		Msg("starting child process")

	start := time.Now()
	runErr := cmd.Run()
	res.Elapsed = time.Since(start)

	if runErr == nil {
		res.ExitCode = 0
		return res, nil
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	if !stderrors.As(runErr, &exitErr) {
		// The child never ran.
		return res, errors.Wrapf(runErr, "executing %s", spec.Argv[0])
	}

	res.ExitCode = exitErr.ExitCode()
	if spec.MustSucceed {
		return res, errors.Wrapf(errors.ErrCommandFailed, "%s exited with code %d", spec.Argv[0], res.ExitCode)
	}

	logger.Warn().
		Str("cmd", spec.Argv[0]).
		Int("exit_code", res.ExitCode).
		Msg("child process exited non-zero")
	return res, nil
}

// openOutput creates the parent directory of path and opens it for writing.
func openOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return nil, errors.Wrapf(err, "creating output dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return nil, errors.Wrapf(err, "opening output file %s", path)
	}
	return f, nil
}

// overlayEnv merges overlay onto the current process environment.
func overlayEnv(overlay map[string]string) []string {
	env := os.Environ()
	for k, v := range overlay {
		env = append(env, k+"="+v)
	}
	return env
}
