package cluster

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scachelab/shufflebench/internal/errors"
)

// fakeScript writes an executable shell script that appends its name and the
// conf override env var to a trace file, then exits with the given code.
func fakeScript(t *testing.T, dir, name, trace string, exitCode int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" +
		"echo \"" + name + " $SCACHE_CONF_OVERRIDE_DIR\" >> " + trace + "\n" +
		"exit " + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700)) //nolint:gosec // executable test fixture
	return path
}

func logPaths(dir string) LogPaths {
	return LogPaths{
		StopStdout:  filepath.Join(dir, "cluster-stop.stdout.log"),
		StopStderr:  filepath.Join(dir, "cluster-stop.stderr.log"),
		StartStdout: filepath.Join(dir, "cluster-start.stdout.log"),
		StartStderr: filepath.Join(dir, "cluster-start.stderr.log"),
	}
}

func TestCycle_StopThenStart(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.log")
	start := fakeScript(t, dir, "start.sh", trace, 0)
	stop := fakeScript(t, dir, "stop.sh", trace, 0)

	c := New(start, stop, dir, zerolog.Nop())
	require.NoError(t, c.Cycle(context.Background(), "/conf/full", logPaths(dir)))

	got, err := os.ReadFile(trace) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "stop.sh /conf/full\nstart.sh /conf/full\n", string(got))
}

func TestCycle_StopFailureIsTolerated(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.log")
	start := fakeScript(t, dir, "start.sh", trace, 0)
	stop := fakeScript(t, dir, "stop.sh", trace, 1)

	c := New(start, stop, dir, zerolog.Nop())
	assert.NoError(t, c.Cycle(context.Background(), "/conf/full", logPaths(dir)))
}

func TestCycle_StartFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.log")
	start := fakeScript(t, dir, "start.sh", trace, 2)
	stop := fakeScript(t, dir, "stop.sh", trace, 0)

	c := New(start, stop, dir, zerolog.Nop())
	err := c.Cycle(context.Background(), "/conf/full", logPaths(dir))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrClusterStartFailed)
}

func TestCycle_MissingStopScriptStillStarts(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.log")
	start := fakeScript(t, dir, "start.sh", trace, 0)

	c := New(start, filepath.Join(dir, "missing-stop.sh"), dir, zerolog.Nop())
	require.NoError(t, c.Cycle(context.Background(), "/conf/full", logPaths(dir)))

	got, err := os.ReadFile(trace) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "start.sh /conf/full\n", string(got))
}
