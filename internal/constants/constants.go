// Package constants provides centralized constant values used throughout
// shufflebench. This package is the single source of truth for all shared
// constants and MUST NOT import any other internal packages.
package constants

// Environment variables understood by the external scripts.
const (
	// ConfOverrideEnvVar names the configuration directory override consumed
	// by the cluster start/stop scripts.
	ConfOverrideEnvVar = "SCACHE_CONF_OVERRIDE_DIR"

	// SubmitExtraArgsEnvVar carries additional shell-quoted spark-submit
	// arguments to the workload submission script.
	SubmitExtraArgsEnvVar = "SPARK_SUBMIT_EXTRA_ARGS"
)

// File names written into a results root.
const (
	// AblationCSVFileName is the tabular summary for ablation experiments.
	AblationCSVFileName = "ablation.csv"

	// SensitivityCSVFileName is the tabular summary for sensitivity sweeps.
	SensitivityCSVFileName = "sensitivity.csv"

	// RunSnapshotFileName is the per-run structured snapshot.
	RunSnapshotFileName = "run.json"

	// EventLogSummaryFileName is the derived telemetry summary per run.
	EventLogSummaryFileName = "eventlog.summary.json"

	// RunIndexFileName is the sqlite run index at the results root.
	RunIndexFileName = "runs.db"

	// SCacheConfFileName is the SCache daemon configuration file name.
	SCacheConfFileName = "scache.conf"

	// SlavesFileName lists cluster member hosts next to scache.conf.
	SlavesFileName = "slaves"
)

// Directory names inside a results root.
const (
	// EventLogDirName holds the Spark event logs captured for one run.
	EventLogDirName = "spark-events"

	// GeneratedConfDirName holds per-sweep-value generated configuration.
	GeneratedConfDirName = "generated-conf"

	// SweepRunsDirName holds per-value run directories of a sweep.
	SweepRunsDirName = "runs"

	// AblationDirName holds per-variant run directories of an ablation.
	AblationDirName = "ablation"
)

// InProgressSuffix marks a Spark event log that is still being written.
const InProgressSuffix = ".inprogress"

// Spark event log discriminator values. These must match the external
// runtime's event schema byte-for-byte.
const (
	EventApplicationStart = "SparkListenerApplicationStart"
	EventApplicationEnd   = "SparkListenerApplicationEnd"
	EventStageSubmitted   = "SparkListenerStageSubmitted"
	EventStageCompleted   = "SparkListenerStageCompleted"
	EventTaskEnd          = "SparkListenerTaskEnd"
)

// TaskSuccessReason is the canonical success marker in a task end reason.
const TaskSuccessReason = "Success"

// Default experiment parameters.
const (
	// DefaultRepeats is how many times each variant or sweep value is run.
	DefaultRepeats = 3

	// WorkloadArgCount is the exact number of positional workload arguments
	// (numMappers, numKVPairs, valSize, numReducers).
	WorkloadArgCount = 4

	// WorkingSetArgIndex is the workload argument position rewritten by the
	// working-set sweep (numKVPairs).
	WorkingSetArgIndex = 1
)

// DefaultWorkloadArgs returns the default GroupByTest argument vector.
// Returned as a fresh slice so callers may mutate their copy.
func DefaultWorkloadArgs() []string {
	return []string{"32", "200000", "1024", "32"}
}

// File and directory permission modes.
const (
	// DirPerm is the mode for directories created under a results root.
	DirPerm = 0o750

	// FilePerm is the mode for files written under a results root.
	FilePerm = 0o600
)

// ResultsTimestampLayout names timestamped results roots (local time).
const ResultsTimestampLayout = "20060102-150405"

// Harness home directory and log rotation settings.
const (
	// HomeEnvVar overrides the harness home directory.
	HomeEnvVar = "SHUFFLEBENCH_HOME"

	// HomeDirName is the harness home under $HOME when HomeEnvVar is unset.
	HomeDirName = ".shufflebench"

	// LogsDirName holds the rotating harness log inside the harness home.
	LogsDirName = "logs"

	// HarnessLogFileName is the rotating harness log file.
	HarnessLogFileName = "harness.log"

	// LogMaxSizeMB is the size at which the harness log rotates.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated harness logs are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated harness logs are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated harness logs.
	LogCompress = true
)
