// Package results persists experiment outcomes: the incrementally-appended
// tabular CSV, the per-run JSON snapshot, and a sqlite run index for quick
// listing across results roots.
//
// There is exactly one writer process by construction (the orchestrator is
// strictly sequential), so no locking is needed.
package results

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// AblationHeader is the fixed column set of an ablation summary.
func AblationHeader() []string {
	return []string{
		"variant",
		"repeat",
		"exit_code",
		"submit_elapsed_s",
		"app_duration_ms",
		"shuffle_write_bytes",
		"shuffle_read_bytes",
		"eventlog",
		"notes",
	}
}

// SensitivityHeader is the fixed column set of a sweep summary.
func SensitivityHeader() []string {
	return []string{
		"sweep",
		"value",
		"repeat",
		"exit_code",
		"submit_elapsed_s",
		"app_duration_ms",
		"shuffle_write_bytes",
		"shuffle_read_bytes",
		"eventlog",
	}
}

// CSVStore appends rows to a tabular summary file. The header is written
// exactly once, when the file does not yet exist; rows are appended and
// never rewritten.
type CSVStore struct {
	path   string
	header []string
}

// NewCSVStore returns a store for the summary file at path with the given
// fixed column set. Nothing is written until the first Append.
func NewCSVStore(path string, header []string) *CSVStore {
	return &CSVStore{path: path, header: header}
}

// Path returns the summary file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes one row. Columns absent from row are written empty, so the
// downstream consumer sees present-but-empty metric fields when extraction
// failed.
func (s *CSVStore) Append(row map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirPerm); err != nil {
		return errors.Wrapf(err, "creating results dir for %s", s.path)
	}

	_, statErr := os.Stat(s.path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return errors.Wrapf(err, "opening summary %s", s.path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(s.header); err != nil {
			return errors.Wrap(err, "writing summary header")
		}
	}

	record := make([]string, len(s.header))
	for i, col := range s.header {
		record[i] = row[col]
	}
	if err := w.Write(record); err != nil {
		return errors.Wrap(err, "writing summary row")
	}

	w.Flush()
	return errors.Wrap(w.Error(), "flushing summary row")
}
