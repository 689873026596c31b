package orchestrator

import (
	"sort"
	"strings"
)

// confOverride is one spark-submit --conf pair. Order matters: the external
// submit script passes these through verbatim, and later pairs win, so
// caller-specific overrides must follow the harness baseline.
type confOverride struct {
	Key   string
	Value string
}

// submitOverrides builds the ordered spark-submit overrides for one run:
// the harness baseline (app name, event logging into the run's artifact
// directory) followed by extra overrides in sorted key order.
func submitOverrides(appName, eventsDir string, extra map[string]string) []confOverride {
	overrides := []confOverride{
		{Key: "spark.app.name", Value: appName},
		{Key: "spark.eventLog.enabled", Value: "true"},
		{Key: "spark.eventLog.dir", Value: "file://" + eventsDir},
		{Key: "spark.eventLog.compress", Value: "false"},
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		overrides = append(overrides, confOverride{Key: k, Value: extra[k]})
	}
	return overrides
}

// SubmitExtraArgs serializes overrides as shell-quoted `--conf key=value`
// pairs, the form the submission script expects in SPARK_SUBMIT_EXTRA_ARGS.
func SubmitExtraArgs(overrides []confOverride) string {
	parts := make([]string, 0, len(overrides)*2)
	for _, ov := range overrides {
		parts = append(parts, "--conf", shellQuote(ov.Key+"="+ov.Value))
	}
	return strings.Join(parts, " ")
}

// shellQuote quotes s for POSIX shell word splitting, matching the
// conservative single-quote strategy of shlex.quote.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if isShellSafe(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func isShellSafe(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("@%+=:,./-_", r):
		default:
			return false
		}
	}
	return true
}
