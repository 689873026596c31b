package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("preserves sentinel through chain", func(t *testing.T) {
		err := Wrap(ErrUnknownVariant, "resolving requested variants")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownVariant)
		assert.Contains(t, err.Error(), "resolving requested variants")
	})
}

func TestWrapf(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, Wrapf(nil, "run %d", 3))
	})

	t.Run("formats context", func(t *testing.T) {
		err := Wrapf(ErrCommandFailed, "repeat %d of variant %q", 2, "no-remote-cache")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommandFailed)
		assert.Contains(t, err.Error(), `repeat 2 of variant "no-remote-cache"`)
	})
}

func TestIsPreflight(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unknown variant", err: ErrUnknownVariant, want: true},
		{name: "unsupported sweep wrapped", err: fmt.Errorf("sweep %q: %w", "latency", ErrUnsupportedSweep), want: true},
		{name: "missing script", err: Wrap(ErrScriptNotFound, "pre-flight"), want: true},
		{name: "base conf missing", err: ErrBaseConfMissing, want: true},
		{name: "cluster start failure is not preflight", err: ErrClusterStartFailed, want: false},
		{name: "plain error", err: stderrors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPreflight(tt.err))
		})
	}
}
