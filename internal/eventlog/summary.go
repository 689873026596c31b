// Package eventlog reduces a Spark event log (JSON lines) to the aggregate
// metrics the harness records per run.
//
// The extractor is deliberately tolerant: a run that is killed mid-write
// leaves a truncated or corrupt trailing line, and compressed or exotic
// field encodings show up as floats, bools, or numeric strings. Anything
// that does not parse contributes zero rather than an error.
package eventlog

// Summary is the scalar/aggregate reduction of one telemetry artifact.
// Field names match the summary schema consumed by the plotting layer.
type Summary struct {
	AppID         *string `json:"app_id"`
	AppName       *string `json:"app_name"`
	AppStartTSMS  *int64  `json:"app_start_ts_ms"`
	AppEndTSMS    *int64  `json:"app_end_ts_ms"`
	AppDurationMS *int64  `json:"app_duration_ms"`

	TasksTotal  int64 `json:"tasks_total"`
	TasksFailed int64 `json:"tasks_failed"`

	ExecutorRunTimeMSSum int64 `json:"executor_run_time_ms_sum"`
	JVMGCTimeMSSum       int64 `json:"jvm_gc_time_ms_sum"`

	ShuffleWriteBytesSum   int64 `json:"shuffle_write_bytes_sum"`
	ShuffleWriteRecordsSum int64 `json:"shuffle_write_records_sum"`
	ShuffleWriteTimeNSSum  int64 `json:"shuffle_write_time_ns_sum"`

	ShuffleReadRemoteBytesSum int64 `json:"shuffle_read_remote_bytes_sum"`
	ShuffleReadLocalBytesSum  int64 `json:"shuffle_read_local_bytes_sum"`
	ShuffleReadBytesSum       int64 `json:"shuffle_read_bytes_sum"`
	ShuffleReadRecordsSum     int64 `json:"shuffle_read_records_sum"`
	ShuffleReadFetchWaitMSSum int64 `json:"shuffle_read_fetch_wait_ms_sum"`

	Stages []Stage `json:"stages"`
}

// Stage is one per-stage record of the summary, ordered by stage id.
// Duration is derived only when both timestamps are present and completion
// is not before submission; it is never negative or fabricated.
type Stage struct {
	StageID          int64   `json:"stage_id"`
	Name             *string `json:"name"`
	SubmissionTimeMS *int64  `json:"submission_time_ms"`
	CompletionTimeMS *int64  `json:"completion_time_ms"`
	DurationMS       *int64  `json:"duration_ms"`
	NumTasks         *int64  `json:"num_tasks"`
}
