package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scachelab/shufflebench/internal/config"
	"github.com/scachelab/shufflebench/internal/errors"
	"github.com/scachelab/shufflebench/internal/results"
)

// deployment is a fake standalone deployment: three scripts that append to
// a trace file, with the submit script emitting a minimal Spark event log
// into the directory it finds in SPARK_SUBMIT_EXTRA_ARGS.
type deployment struct {
	dir   string
	trace string
	cfg   *config.Config
}

func newDeployment(t *testing.T) *deployment {
	t.Helper()
	dir := t.TempDir()
	d := &deployment{dir: dir, trace: filepath.Join(dir, "trace.log")}

	writeScript(t, filepath.Join(dir, "start.sh"),
		"echo start >> "+d.trace+"\nexit 0\n")
	writeScript(t, filepath.Join(dir, "stop.sh"),
		"echo stop >> "+d.trace+"\nexit 0\n")
	writeScript(t, filepath.Join(dir, "submit.sh"),
		`echo "submit $@" >> `+d.trace+"\n"+
			`logdir=$(printf '%s' "$SPARK_SUBMIT_EXTRA_ARGS" | sed -n 's|.*spark\.eventLog\.dir=file://\([^ ]*\).*|\1|p')`+"\n"+
			`if [ -n "$logdir" ]; then`+"\n"+
			`  printf '%s\n%s\n' '{"Event":"SparkListenerApplicationStart","Timestamp":1000,"App ID":"app-test","App Name":"fake"}' '{"Event":"SparkListenerApplicationEnd","Timestamp":4500}' > "$logdir/app-test"`+"\n"+
			`fi`+"\n"+
			"exit 0\n")

	confBase := filepath.Join(dir, "conf", "scache-multinode")
	fullDir := filepath.Join(confBase, "ultrashuffle-full")
	require.NoError(t, os.MkdirAll(fullDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(fullDir, "scache.conf"),
		[]byte("# base config\nscache.memory.offHeap.size = 4g\nscache.daemon.ipc.pool.align = 4096\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(fullDir, "slaves"), []byte("node-a\nnode-b\n"), 0o600))

	d.cfg = &config.Config{
		Scripts:  config.Scripts{Dir: dir, Start: "start.sh", Stop: "stop.sh", Submit: "submit.sh"},
		Conf:     config.Conf{BaseDir: confBase},
		Results:  config.Results{Root: filepath.Join(dir, "results")},
		Workload: config.Workload{Args: []string{"32", "200000", "1024", "32"}, Repeats: 3},
	}
	return d
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o700)) //nolint:gosec // executable test fixture
}

func (d *deployment) traceLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(d.trace) //nolint:gosec // test path
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// fixedClock pins results-root timestamps for deterministic layouts.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func newTestOrchestrator(cfg *config.Config) *Orchestrator {
	clk := fixedClock{at: time.Date(2024, 6, 15, 10, 30, 0, 0, time.Local)}
	return New(cfg, clk, zerolog.Nop())
}

func TestRunAblation_ThreeRepeatsStrictAlternation(t *testing.T) {
	d := newDeployment(t)
	out := filepath.Join(d.dir, "out")

	o := newTestOrchestrator(d.cfg)
	err := o.RunAblation(context.Background(), AblationSpec{
		Options: Options{
			OutDir:            out,
			RestartCluster:    true,
			RestartEachRepeat: true,
		},
		Variants: []string{"ultrashuffle-full"},
	})
	require.NoError(t, err)

	// Stop, start, submit, three times, never overlapping.
	lines := d.traceLines(t)
	require.Len(t, lines, 9)
	for i := 0; i < 3; i++ {
		assert.Equal(t, "stop", lines[i*3])
		assert.Equal(t, "start", lines[i*3+1])
		assert.True(t, strings.HasPrefix(lines[i*3+2], "submit 32 200000 1024 32"), "got %q", lines[i*3+2])
	}

	// Exactly three CSV rows.
	csvData, err := os.ReadFile(filepath.Join(out, "ablation.csv")) //nolint:gosec // test path
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, rows, 4) // header + 3 rows
	assert.Contains(t, rows[1], "ultrashuffle-full,0,0,")
	assert.Contains(t, rows[1], ",3500,") // app_duration_ms from the fake event log

	// Exactly three snapshots and three derived summaries.
	for rep := 0; rep < 3; rep++ {
		runDir := filepath.Join(out, "ablation", "ultrashuffle-full", runDirName(rep))
		assert.FileExists(t, filepath.Join(runDir, "run.json"))
		assert.FileExists(t, filepath.Join(runDir, "eventlog.summary.json"))
	}

	// The run index carries the same three runs.
	ix, err := results.OpenRunIndex(filepath.Join(out, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	recorded, err := ix.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recorded, 3)
}

func TestRunAblation_UnknownVariantAbortsBeforeAnyRun(t *testing.T) {
	d := newDeployment(t)
	out := filepath.Join(d.dir, "out")

	o := newTestOrchestrator(d.cfg)
	err := o.RunAblation(context.Background(), AblationSpec{
		Options:  Options{OutDir: out},
		Variants: []string{"turbo-mode"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownVariant)
	assert.NoDirExists(t, out)
	assert.Empty(t, d.traceLines(t))
}

func TestRunAblation_MissingSubmitScriptIsPreflight(t *testing.T) {
	d := newDeployment(t)
	d.cfg.Scripts.Submit = "gone.sh"

	o := newTestOrchestrator(d.cfg)
	err := o.RunAblation(context.Background(), AblationSpec{
		Options: Options{OutDir: filepath.Join(d.dir, "out")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrScriptNotFound)
}

func TestRunAblation_FailedRunStillRecorded(t *testing.T) {
	d := newDeployment(t)
	// Killed workload: exit 137, no event log written.
	writeScript(t, filepath.Join(d.dir, "submit.sh"), "exit 137\n")
	out := filepath.Join(d.dir, "out")

	o := newTestOrchestrator(d.cfg)
	err := o.RunAblation(context.Background(), AblationSpec{
		Options:  Options{OutDir: out, Repeats: 1},
		Variants: []string{"no-remote-cache"},
	})
	require.NoError(t, err, "a failing workload is recorded, not fatal")

	csvData, err := os.ReadFile(filepath.Join(out, "ablation.csv")) //nolint:gosec // test path
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[1], "no-remote-cache,0,137,")
	// Metric fields are present but empty, not zero.
	assert.Contains(t, rows[1], ",,,")

	runDir := filepath.Join(out, "ablation", "no-remote-cache", "run-000")
	assert.FileExists(t, filepath.Join(runDir, "run.json"))
	assert.NoFileExists(t, filepath.Join(runDir, "eventlog.summary.json"))
}

func TestRunAblation_ClusterStartFailureAborts(t *testing.T) {
	d := newDeployment(t)
	writeScript(t, filepath.Join(d.dir, "start.sh"), "exit 1\n")
	out := filepath.Join(d.dir, "out")

	o := newTestOrchestrator(d.cfg)
	err := o.RunAblation(context.Background(), AblationSpec{
		Options:  Options{OutDir: out, RestartCluster: true},
		Variants: []string{"ultrashuffle-full"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrClusterStartFailed)
	assert.NoFileExists(t, filepath.Join(out, "ablation.csv"))
}
