package runner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scachelab/shufflebench/internal/constants"
)

// FindEventLog locates the single relevant telemetry artifact in dir.
//
// Policy: prefer files not marked in progress; among those, exactly one is
// taken as-is and several resolve to the most recently modified. If only
// in-progress files exist the same rule applies to them. An absent or empty
// directory yields "" — the run then has no artifact, which is recorded,
// not an error.
func FindEventLog(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var finished, inProgress []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if strings.HasSuffix(e.Name(), constants.InProgressSuffix) {
			inProgress = append(inProgress, path)
		} else {
			finished = append(finished, path)
		}
	}

	if p := pickNewest(finished); p != "" {
		return p
	}
	return pickNewest(inProgress)
}

// pickNewest returns the single candidate, or the most recently modified
// one when there are several.
func pickNewest(candidates []string) string {
	switch len(candidates) {
	case 0:
		return ""
	case 1:
		return candidates[0]
	}

	var best string
	var bestMod time.Time
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestMod) {
			best = p
			bestMod = info.ModTime()
		}
	}
	return best
}
