// Package sweep models parameter sweeps: a closed set of sweep kinds, the
// value grammar each kind accepts, and the configuration keys or workload
// arguments each value rewrites.
package sweep

import (
	"strconv"

	"github.com/scachelab/shufflebench/internal/constants"
	"github.com/scachelab/shufflebench/internal/errors"
)

// Kind is a supported sweep dimension. The set is closed; anything else is
// a fatal, reported error.
type Kind string

// Supported sweep kinds.
const (
	// KindCapacity sweeps the CXL pool capacity. Values are size-with-unit
	// strings (e.g. 512m, 1g) rewritten into two configuration keys.
	KindCapacity Kind = "cxl-capacity"

	// KindAlign sweeps the pool alignment. Values are integer byte counts
	// rewritten into two configuration keys.
	KindAlign Kind = "align"

	// KindWorkingSet sweeps the workload's working-set size. Values replace
	// the numKVPairs workload argument.
	KindWorkingSet Kind = "working-set-fit"
)

// Configuration keys rewritten by the config-mutating sweeps. These must
// match the external system's configuration schema byte-for-byte.
const (
	confKeyOffHeapSize    = "scache.memory.offHeap.size"
	confKeySharedPoolSize = "scache.storage.cxl.shared.pool.size"
	confKeyIPCPoolAlign   = "scache.daemon.ipc.pool.align"
	confKeySharedAlign    = "scache.storage.cxl.shared.pool.align"
)

// Kinds returns the supported sweep kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindCapacity, KindAlign, KindWorkingSet}
}

// ParseKind validates a caller-supplied sweep name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUnsupportedSweep, "%q", s)
}

// MutatesConfig reports whether the kind rewrites the SCache configuration
// (and therefore needs a generated conf dir per value).
func (k Kind) MutatesConfig() bool {
	return k == KindCapacity || k == KindAlign
}

// Validate checks one raw sweep value against the kind's grammar. The
// original literal string is what later gets written into configuration or
// argv; validation only rejects values the external system could not parse.
func (k Kind) Validate(value string) error {
	switch k {
	case KindCapacity:
		_, err := ParseSize(value)
		return err
	case KindAlign, KindWorkingSet:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return errors.Wrapf(errors.ErrInvalidArgument, "sweep %s value %q must be a positive integer", k, value)
		}
		return nil
	default:
		return errors.Wrapf(errors.ErrUnsupportedSweep, "%q", string(k))
	}
}

// ConfUpdates returns the configuration keys the value rewrites, all set to
// the original literal string (never a normalized form) so the external
// system's own unit parser stays authoritative. Nil for kinds that do not
// touch configuration.
func (k Kind) ConfUpdates(value string) map[string]string {
	switch k {
	case KindCapacity:
		return map[string]string{
			confKeyOffHeapSize:    value,
			confKeySharedPoolSize: value,
		}
	case KindAlign:
		return map[string]string{
			confKeyIPCPoolAlign: value,
			confKeySharedAlign:  value,
		}
	default:
		return nil
	}
}

// WorkloadArgs returns the workload argument vector for this value, copying
// base so callers never share backing arrays across sweep values.
func (k Kind) WorkloadArgs(value string, base []string) []string {
	args := make([]string, len(base))
	copy(args, base)
	if k == KindWorkingSet && len(args) > constants.WorkingSetArgIndex {
		args[constants.WorkingSetArgIndex] = value
	}
	return args
}
