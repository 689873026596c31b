package cli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scachelab/shufflebench/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitSuccess},
		{name: "unknown variant", err: errors.Wrap(errors.ErrUnknownVariant, "no-such-thing"), expected: ExitInvalidInput},
		{name: "script not found", err: errors.ErrScriptNotFound, expected: ExitInvalidInput},
		{name: "invalid size", err: errors.Wrapf(errors.ErrInvalidSize, "%q", "12x"), expected: ExitInvalidInput},
		{name: "invalid output format", err: errors.ErrInvalidOutputFormat, expected: ExitInvalidInput},
		{name: "cobra unknown flag", err: stderrors.New("unknown flag: --bogus"), expected: ExitInvalidInput},
		{name: "cobra mutually exclusive", err: stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), expected: ExitInvalidInput},
		{name: "cluster start failure", err: errors.ErrClusterStartFailed, expected: ExitError},
		{name: "generic", err: stderrors.New("boom"), expected: ExitError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ExitCodeForError(tc.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExperimentFlags_Options(t *testing.T) {
	t.Parallel()

	t.Run("defaults restart the cluster", func(t *testing.T) {
		t.Parallel()

		flags := &experimentFlags{}
		opts, err := flags.options()
		assert.NoError(t, err)
		assert.True(t, opts.RestartCluster)
		assert.False(t, opts.RestartEachRepeat)
		assert.Empty(t, opts.WorkloadArgs)
	})

	t.Run("no-restart-cluster is honored", func(t *testing.T) {
		t.Parallel()

		flags := &experimentFlags{noRestartCluster: true}
		opts, err := flags.options()
		assert.NoError(t, err)
		assert.False(t, opts.RestartCluster)
	})

	t.Run("wrong workload arg count is invalid input", func(t *testing.T) {
		t.Parallel()

		flags := &experimentFlags{workloadArgs: []string{"32", "200000", "1024"}}
		_, err := flags.options()
		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
		assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
	})

	t.Run("four workload args pass through", func(t *testing.T) {
		t.Parallel()

		flags := &experimentFlags{workloadArgs: []string{"32", "400000", "1024", "32"}}
		opts, err := flags.options()
		assert.NoError(t, err)
		assert.Equal(t, []string{"32", "400000", "1024", "32"}, opts.WorkloadArgs)
	})
}
