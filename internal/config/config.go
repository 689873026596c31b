// Package config loads and validates the harness configuration: where the
// external cluster scripts live, where the SCache configuration variants
// are, and the default experiment parameters.
//
// Configuration is layered (highest precedence first): environment
// variables with the SHUFFLEBENCH_ prefix, a .shufflebench.yaml file in the
// working directory or the user's home, then built-in defaults.
package config

import "path/filepath"

// Config is the complete harness configuration.
type Config struct {
	Scripts  Scripts  `mapstructure:"scripts"`
	Conf     Conf     `mapstructure:"conf"`
	Results  Results  `mapstructure:"results"`
	Workload Workload `mapstructure:"workload"`
}

// Scripts locates the three opaque external executables. Relative names are
// resolved under Dir, which is also the working directory children run in.
type Scripts struct {
	// Dir is the directory holding the cluster scripts (the deployment
	// root). Children are invoked with this as their working directory.
	Dir string `mapstructure:"dir"`

	// Start is the cluster start script.
	Start string `mapstructure:"start"`

	// Stop is the cluster stop script.
	Stop string `mapstructure:"stop"`

	// Submit is the workload submission script.
	Submit string `mapstructure:"submit"`
}

// Conf locates the SCache configuration variants.
type Conf struct {
	// BaseDir holds one subdirectory per variant (scache.conf + slaves).
	BaseDir string `mapstructure:"base_dir"`
}

// Results controls where results roots are created.
type Results struct {
	// Root is the base directory for timestamped results roots, used when
	// the caller does not supply an explicit output directory.
	Root string `mapstructure:"root"`
}

// Workload holds the default workload invocation parameters.
type Workload struct {
	// Args is the GroupByTest argument vector
	// (numMappers, numKVPairs, valSize, numReducers).
	Args []string `mapstructure:"args"`

	// Repeats is how many times each variant or sweep value runs.
	Repeats int `mapstructure:"repeats"`
}

// resolve joins name under dir unless it is already absolute.
func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// StartPath returns the resolved cluster start script path.
func (s Scripts) StartPath() string { return resolve(s.Dir, s.Start) }

// StopPath returns the resolved cluster stop script path.
func (s Scripts) StopPath() string { return resolve(s.Dir, s.Stop) }

// SubmitPath returns the resolved workload submission script path.
func (s Scripts) SubmitPath() string { return resolve(s.Dir, s.Submit) }
