package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmitOverrides_BaselineFirstThenSortedExtras(t *testing.T) {
	overrides := submitOverrides("ablation-per-block-files", "/results/run-000/spark-events", map[string]string{
		"spark.scache.shuffle.noLocalFiles": "false",
		"spark.executor.memory":             "8g",
	})

	keys := make([]string, len(overrides))
	for i, ov := range overrides {
		keys[i] = ov.Key
	}
	assert.Equal(t, []string{
		"spark.app.name",
		"spark.eventLog.enabled",
		"spark.eventLog.dir",
		"spark.eventLog.compress",
		"spark.executor.memory",
		"spark.scache.shuffle.noLocalFiles",
	}, keys)
	assert.Equal(t, "file:///results/run-000/spark-events", overrides[2].Value)
}

func TestSubmitExtraArgs(t *testing.T) {
	got := SubmitExtraArgs([]confOverride{
		{Key: "spark.app.name", Value: "ablation-full"},
		{Key: "spark.eventLog.enabled", Value: "true"},
	})
	assert.Equal(t, "--conf spark.app.name=ablation-full --conf spark.eventLog.enabled=true", got)
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "spark.eventLog.enabled=true", want: "spark.eventLog.enabled=true"},
		{in: "spark.eventLog.dir=file:///tmp/events", want: "spark.eventLog.dir=file:///tmp/events"},
		{in: "spark.app.name=has space", want: "'spark.app.name=has space'"},
		{in: "a'b", want: `'a'"'"'b'`},
		{in: "", want: "''"},
		{in: "semi;colon", want: "'semi;colon'"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.in))
		})
	}
}
