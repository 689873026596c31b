package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/results"
)

// seedIndex creates a run index with one ablation and one sensitivity run.
func seedIndex(t *testing.T, root string) {
	t.Helper()
	ctx := context.Background()

	ix, err := results.OpenRunIndex(filepath.Join(root, constants.RunIndexFileName))
	require.NoError(t, err)
	defer func() { require.NoError(t, ix.Close()) }()

	require.NoError(t, ix.Record(ctx, results.RunRecord{
		ExperimentID: "exp-1",
		Kind:         "ablation",
		Variant:      "ultrashuffle-full",
		Repeat:       0,
		ExitCode:     0,
		ElapsedS:     12.5,
		AppDuration:  sql.NullInt64{Int64: 3500, Valid: true},
		WriteBytes:   sql.NullInt64{Int64: 1 << 20, Valid: true},
		ReadBytes:    sql.NullInt64{Int64: 1 << 20, Valid: true},
		EventLog:     "spark-events/app-42",
		CreatedAt:    time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
	}))
	require.NoError(t, ix.Record(ctx, results.RunRecord{
		ExperimentID: "exp-2",
		Kind:         "sensitivity",
		Sweep:        "cxl-capacity",
		Value:        "2g",
		Repeat:       1,
		ExitCode:     137,
		ElapsedS:     3.2,
		Notes:        "workload exited non-zero",
		CreatedAt:    time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC),
	}))
}

func TestRunRuns_Table(t *testing.T) {
	root := t.TempDir()
	seedIndex(t, root)

	var out bytes.Buffer
	require.NoError(t, runRuns(context.Background(), &out, filepath.Join(root, constants.RunIndexFileName), OutputText))

	assert.Contains(t, out.String(), "ultrashuffle-full")
	assert.Contains(t, out.String(), "cxl-capacity=2g")
	assert.Contains(t, out.String(), "137")
	// Absent telemetry renders as a dash, not a zero.
	assert.Contains(t, out.String(), "-")
}

func TestRunRuns_JSON(t *testing.T) {
	root := t.TempDir()
	seedIndex(t, root)

	var out bytes.Buffer
	require.NoError(t, runRuns(context.Background(), &out, filepath.Join(root, constants.RunIndexFileName), OutputJSON))

	var rows []runRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "ablation", rows[0].Kind)
	require.NotNil(t, rows[0].AppDuration)
	assert.Equal(t, int64(3500), *rows[0].AppDuration)

	assert.Equal(t, "sensitivity", rows[1].Kind)
	assert.Equal(t, 137, rows[1].ExitCode)
	assert.Nil(t, rows[1].AppDuration)
	assert.Nil(t, rows[1].WriteBytes)
}

func TestRunRuns_EmptyIndex(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runRuns(context.Background(), &out, filepath.Join(t.TempDir(), constants.RunIndexFileName), OutputText))
	assert.Contains(t, out.String(), "no runs recorded")
}

func TestRunsCommand_NeedsRootOrDB(t *testing.T) {
	_, err := executeCommand(t, "runs")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}
