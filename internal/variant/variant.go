// Package variant declares the static registry of ablation variants.
//
// The set is process-wide static data: variants are declared here once and
// never mutated at runtime. Lookup failures are explicit errors, never a
// silent fallthrough.
package variant

import (
	"path/filepath"

	"github.com/scachelab/shufflebench/internal/errors"
)

// Variant is one named, fully-specified configuration of the system under
// test. Immutable once declared.
type Variant struct {
	// Name uniquely identifies the variant.
	Name string

	// ConfDir is the SCache configuration directory for this variant,
	// resolved under the base conf dir. Read-only external data.
	ConfDir string

	// SubmitOverrides are extra spark-submit conf overrides applied when the
	// workload is launched under this variant.
	SubmitOverrides map[string]string

	// Notes is free text carried into every result row of this variant.
	Notes string
}

// All returns every variant in declaration order, with conf dirs resolved
// under baseConfDir.
func All(baseConfDir string) []Variant {
	return []Variant{
		{
			Name:    "ultrashuffle-full",
			ConfDir: filepath.Join(baseConfDir, "ultrashuffle-full"),
			Notes:   "Pool slices + partition homes + remote caching + shared CXL pool.",
		},
		{
			Name:    "no-partition-homes",
			ConfDir: filepath.Join(baseConfDir, "no-partition-homes"),
			Notes:   "Requires optional SCache patch to take effect (otherwise same as full).",
		},
		{
			Name:    "no-remote-cache",
			ConfDir: filepath.Join(baseConfDir, "no-remote-cache"),
			Notes:   "Disables caching for non-local blocks (remote=DISK_ONLY).",
		},
		{
			Name:    "service-mediated-fetch",
			ConfDir: filepath.Join(baseConfDir, "service-mediated-fetch"),
			Notes:   "Disables shared CXL pool; uses client-to-client fetch.",
		},
		{
			Name:    "per-block-files",
			ConfDir: filepath.Join(baseConfDir, "per-block-files"),
			// Spark no-local-files mode expects the pool-slice upload path.
			// For per-block IPC files, run in sidecar mode (keep Spark
			// shuffle files).
			SubmitOverrides: map[string]string{
				"spark.scache.shuffle.noLocalFiles": "false",
			},
			Notes: "Per-block IPC files; runs Spark in sidecar mode (noLocalFiles=false).",
		},
	}
}

// Lookup resolves one variant by name.
func Lookup(baseConfDir, name string) (Variant, error) {
	for _, v := range All(baseConfDir) {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, errors.Wrapf(errors.ErrUnknownVariant, "%q", name)
}

// Resolve maps requested names to variants, preserving the caller's order.
// An empty request selects every variant in declaration order.
func Resolve(baseConfDir string, names []string) ([]Variant, error) {
	if len(names) == 0 {
		return All(baseConfDir), nil
	}
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		v, err := Lookup(baseConfDir, name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Names returns the registered variant names in declaration order.
func Names() []string {
	all := All("")
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.Name
	}
	return names
}
