package config

import (
	"github.com/spf13/viper"

	"github.com/scachelab/shufflebench/internal/constants"
)

// Default script names at the deployment root. These match the standalone
// multinode deployment layout.
const (
	DefaultStartScript  = "start-standalone-multinode.sh"
	DefaultStopScript   = "stop-standalone-multinode.sh"
	DefaultSubmitScript = "submit-groupbytest-mn.sh"
)

// DefaultConfBaseDir is where variant conf dirs live below the deployment
// root.
const DefaultConfBaseDir = "conf/scache-multinode"

// DefaultResultsRoot is where timestamped results roots are created.
const DefaultResultsRoot = "results"

// setDefaults registers the built-in defaults on a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scripts.dir", ".")
	v.SetDefault("scripts.start", DefaultStartScript)
	v.SetDefault("scripts.stop", DefaultStopScript)
	v.SetDefault("scripts.submit", DefaultSubmitScript)
	v.SetDefault("conf.base_dir", DefaultConfBaseDir)
	v.SetDefault("results.root", DefaultResultsRoot)
	v.SetDefault("workload.args", constants.DefaultWorkloadArgs())
	v.SetDefault("workload.repeats", constants.DefaultRepeats)
}
