package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scachelab/shufflebench/internal/errors"
)

func testSpec(t *testing.T, argv []string, mustSucceed bool) Spec {
	t.Helper()
	dir := t.TempDir()
	return Spec{
		Argv:        argv,
		Dir:         dir,
		StdoutPath:  filepath.Join(dir, "out", "cmd.stdout.log"),
		StderrPath:  filepath.Join(dir, "out", "cmd.stderr.log"),
		MustSucceed: mustSucceed,
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	spec := testSpec(t, []string{"sh", "-c", "echo captured; echo oops >&2"}, true)

	res, err := Run(context.Background(), zerolog.Nop(), spec)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.GreaterOrEqual(t, res.ElapsedSeconds(), 0.0)

	out, err := os.ReadFile(spec.StdoutPath) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "captured\n", string(out))

	errOut, err := os.ReadFile(spec.StderrPath) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(errOut))
}

func TestRun_NonZeroExitRecordedWhenNotMustSucceed(t *testing.T) {
	spec := testSpec(t, []string{"sh", "-c", "exit 137"}, false)

	res, err := Run(context.Background(), zerolog.Nop(), spec)
	require.NoError(t, err)
	assert.Equal(t, 137, res.ExitCode)
}

func TestRun_NonZeroExitFatalWhenMustSucceed(t *testing.T) {
	spec := testSpec(t, []string{"sh", "-c", "exit 3"}, true)

	res, err := Run(context.Background(), zerolog.Nop(), spec)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCommandFailed)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_MissingExecutable(t *testing.T) {
	spec := testSpec(t, []string{"/definitely/not/a/binary"}, false)

	res, err := Run(context.Background(), zerolog.Nop(), spec)
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRun_EnvOverlayReachesChild(t *testing.T) {
	spec := testSpec(t, []string{"sh", "-c", `printf '%s' "$SCACHE_CONF_OVERRIDE_DIR"`}, true)
	spec.Env = map[string]string{"SCACHE_CONF_OVERRIDE_DIR": "/conf/override"}

	_, err := Run(context.Background(), zerolog.Nop(), spec)
	require.NoError(t, err)

	out, err := os.ReadFile(spec.StdoutPath) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "/conf/override", string(out))
}

func TestRun_WorkingDirectory(t *testing.T) {
	spec := testSpec(t, []string{"sh", "-c", "pwd"}, true)

	_, err := Run(context.Background(), zerolog.Nop(), spec)
	require.NoError(t, err)

	out, err := os.ReadFile(spec.StdoutPath) //nolint:gosec // test path
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(spec.Dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(string(out[:len(out)-1]))
	require.NoError(t, err)
	assert.Equal(t, resolved, got)
}
