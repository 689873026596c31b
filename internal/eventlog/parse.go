package eventlog

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// maxLineBytes bounds a single event line. Spark task-end events carry
// accumulator dumps that can run into megabytes.
const maxLineBytes = 16 * 1024 * 1024

// accumulator threads the whole extraction pass through one mutable record.
// Its lifetime begins and ends inside Parse.
type accumulator struct {
	summary Summary
	stages  map[int64]*Stage
}

// Parse streams the event log at path and reduces it to a Summary.
//
// The input file is never modified. Lines that fail to parse as JSON are
// skipped; missing or non-numeric metric fields count as zero. Two merge
// rules apply deliberately and must not be unified: application id/name are
// first-occurrence-wins, while stage records are upserts where a later
// event overwrites.
func Parse(path string) (*Summary, error) {
	f, err := os.Open(path) //nolint:gosec // caller-controlled path
	if err != nil {
		return nil, errors.Wrapf(err, "opening event log %s", path)
	}
	defer func() { _ = f.Close() }()

	acc := &accumulator{stages: make(map[int64]*Stage)}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var evt map[string]any
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			// Truncated in-progress logs end with a partial line.
			continue
		}
		acc.apply(evt)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading event log %s", path)
	}

	return acc.finish(), nil
}

func (a *accumulator) apply(evt map[string]any) {
	event, _ := evt["Event"].(string)
	switch event {
	case constants.EventApplicationStart:
		a.applicationStart(evt)
	case constants.EventApplicationEnd:
		a.summary.AppEndTSMS = coerceInt64(evt["Timestamp"], a.summary.AppEndTSMS)
	case constants.EventStageSubmitted:
		a.stageSubmitted(evt)
	case constants.EventStageCompleted:
		a.stageCompleted(evt)
	case constants.EventTaskEnd:
		a.taskEnd(evt)
	}
}

// applicationStart captures the start timestamp (latest overwrite) and the
// application identity (first non-empty occurrence wins).
func (a *accumulator) applicationStart(evt map[string]any) {
	a.summary.AppStartTSMS = coerceInt64(evt["Timestamp"], a.summary.AppStartTSMS)
	if a.summary.AppID == nil {
		if id, ok := evt["App ID"].(string); ok && id != "" {
			a.summary.AppID = &id
		}
	}
	if a.summary.AppName == nil {
		if name, ok := evt["App Name"].(string); ok && name != "" {
			a.summary.AppName = &name
		}
	}
}

func (a *accumulator) stageSubmitted(evt map[string]any) {
	info, stage := a.stageFor(evt)
	if stage == nil {
		return
	}
	stage.SubmissionTimeMS = coerceInt64(info["Submission Time"], stage.SubmissionTimeMS)
}

func (a *accumulator) stageCompleted(evt map[string]any) {
	info, stage := a.stageFor(evt)
	if stage == nil {
		return
	}
	stage.CompletionTimeMS = coerceInt64(info["Completion Time"], stage.CompletionTimeMS)
	stage.NumTasks = coerceInt64(info["Number of Tasks"], stage.NumTasks)
}

// stageFor upserts the stage record keyed by the event's stage id and
// refreshes its name (later non-empty name overwrites).
func (a *accumulator) stageFor(evt map[string]any) (map[string]any, *Stage) {
	info, _ := evt["Stage Info"].(map[string]any)
	if info == nil {
		return nil, nil
	}
	id := coerceInt64(info["Stage ID"], nil)
	if id == nil {
		return nil, nil
	}
	stage, ok := a.stages[*id]
	if !ok {
		stage = &Stage{StageID: *id}
		a.stages[*id] = stage
	}
	if name, ok := info["Stage Name"].(string); ok && name != "" {
		stage.Name = &name
	}
	return info, stage
}

func (a *accumulator) taskEnd(evt map[string]any) {
	a.summary.TasksTotal++
	if reason, ok := evt["Task End Reason"].(map[string]any); ok {
		if r, present := reason["Reason"]; present && r != nil && r != constants.TaskSuccessReason {
			a.summary.TasksFailed++
		}
	}

	metrics, _ := evt["Task Metrics"].(map[string]any)
	if metrics == nil {
		return
	}
	a.summary.ExecutorRunTimeMSSum += coerceZero(metrics["Executor Run Time"])
	a.summary.JVMGCTimeMSSum += coerceZero(metrics["JVM GC Time"])

	if sw, ok := metrics["Shuffle Write Metrics"].(map[string]any); ok {
		a.summary.ShuffleWriteBytesSum += coerceZero(sw["Shuffle Bytes Written"])
		a.summary.ShuffleWriteRecordsSum += coerceZero(sw["Shuffle Records Written"])
		a.summary.ShuffleWriteTimeNSSum += coerceZero(sw["Shuffle Write Time"])
	}
	if sr, ok := metrics["Shuffle Read Metrics"].(map[string]any); ok {
		a.summary.ShuffleReadRemoteBytesSum += coerceZero(sr["Remote Bytes Read"])
		a.summary.ShuffleReadLocalBytesSum += coerceZero(sr["Local Bytes Read"])
		a.summary.ShuffleReadRecordsSum += coerceZero(sr["Records Read"])
		a.summary.ShuffleReadFetchWaitMSSum += coerceZero(sr["Fetch Wait Time"])
	}
}

// finish derives the dependent fields and orders stages by id.
func (a *accumulator) finish() *Summary {
	s := a.summary

	s.ShuffleReadBytesSum = s.ShuffleReadRemoteBytesSum + s.ShuffleReadLocalBytesSum

	if s.AppStartTSMS != nil && s.AppEndTSMS != nil && *s.AppEndTSMS >= *s.AppStartTSMS {
		d := *s.AppEndTSMS - *s.AppStartTSMS
		s.AppDurationMS = &d
	}

	s.Stages = make([]Stage, 0, len(a.stages))
	for _, stage := range a.stages {
		if stage.SubmissionTimeMS != nil && stage.CompletionTimeMS != nil &&
			*stage.CompletionTimeMS >= *stage.SubmissionTimeMS {
			d := *stage.CompletionTimeMS - *stage.SubmissionTimeMS
			stage.DurationMS = &d
		}
		s.Stages = append(s.Stages, *stage)
	}
	sort.Slice(s.Stages, func(i, j int) bool { return s.Stages[i].StageID < s.Stages[j].StageID })

	return &s
}

// coerceInt64 converts a loosely-typed JSON value to an int64, tolerating
// floats, integers, booleans, and numeric strings. On failure the previous
// value is kept.
func coerceInt64(v any, prev *int64) *int64 {
	switch x := v.(type) {
	case float64:
		n := int64(x)
		return &n
	case bool:
		n := int64(0)
		if x {
			n = 1
		}
		return &n
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return &n
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			n := int64(f)
			return &n
		}
		return prev
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return &n
		}
		return prev
	default:
		return prev
	}
}

// coerceZero is coerceInt64 with a zero default, for additive metrics.
func coerceZero(v any) int64 {
	if n := coerceInt64(v, nil); n != nil {
		return *n
	}
	return 0
}
