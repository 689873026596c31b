package results

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// WriteJSON persists v as indented JSON at path, creating parent
// directories. Used for the per-run snapshot and the derived telemetry
// summary; both are written once and never mutated.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshaling %s", path)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), constants.DirPerm); err != nil {
		return errors.Wrapf(err, "creating dir for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, constants.FilePerm), "writing %s", path)
}
