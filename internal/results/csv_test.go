package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStore_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ablation.csv")
	store := NewCSVStore(path, AblationHeader())

	require.NoError(t, store.Append(map[string]string{
		"variant":          "ultrashuffle-full",
		"repeat":           "0",
		"exit_code":        "0",
		"submit_elapsed_s": "12.345",
	}))
	require.NoError(t, store.Append(map[string]string{
		"variant":   "ultrashuffle-full",
		"repeat":    "1",
		"exit_code": "137",
	}))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	content := string(data)

	assert.Equal(t, 1, strings.Count(content, "variant,repeat,exit_code"))

	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, AblationHeader(), records[0])
}

func TestCSVStore_AbsentColumnsAreEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensitivity.csv")
	store := NewCSVStore(path, SensitivityHeader())

	require.NoError(t, store.Append(map[string]string{
		"sweep":     "cxl-capacity",
		"value":     "2g",
		"repeat":    "0",
		"exit_code": "1",
	}))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "cxl-capacity", row[0])
	assert.Equal(t, "2g", row[1])
	// Metric columns are present but empty when extraction was skipped.
	assert.Empty(t, row[4]) // app_duration_ms
	assert.Empty(t, row[5]) // shuffle_write_bytes
	assert.Empty(t, row[6]) // shuffle_read_bytes
}

func TestCSVStore_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "ablation.csv")
	store := NewCSVStore(path, AblationHeader())

	require.NoError(t, store.Append(map[string]string{"variant": "x"}))
	assert.FileExists(t, path)
}
