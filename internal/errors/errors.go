// Package errors provides centralized error handling for shufflebench.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the harness. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrUnknownVariant indicates that a requested experiment variant is not
	// present in the static variant registry.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrUnsupportedSweep indicates that a sweep kind outside the supported
	// enumeration was requested.
	ErrUnsupportedSweep = errors.New("unsupported sweep")

	// ErrScriptNotFound indicates that one of the external cluster lifecycle
	// or workload submission scripts does not exist.
	ErrScriptNotFound = errors.New("script not found")

	// ErrClusterStartFailed indicates that the cluster start script exited
	// non-zero. The experiment cannot proceed against a cluster that failed
	// to start.
	ErrClusterStartFailed = errors.New("cluster start failed")

	// ErrCommandFailed indicates that a child command that was required to
	// succeed exited non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrInvalidSize indicates that a size-with-unit string could not be
	// parsed (capacity sweep values).
	ErrInvalidSize = errors.New("invalid size string")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfigInvalid indicates an invalid harness configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrBaseConfMissing indicates that the base scache.conf required by a
	// configuration-mutating sweep does not exist.
	ErrBaseConfMissing = errors.New("base scache.conf not found")

	// ErrNoEventLog indicates that no telemetry artifact exists for a run.
	// Extraction is skipped in that case; this is recorded, not fatal.
	ErrNoEventLog = errors.New("no event log found")

	// ErrNotAFile indicates that a path expected to name a regular file
	// does not.
	ErrNotAFile = errors.New("not a file")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrRunIndexClosed indicates an operation on an already-closed run index.
	ErrRunIndexClosed = errors.New("run index closed")
)

// IsPreflight reports whether err belongs to the pre-flight fatal class:
// conditions detected before any run is attempted, which map to exit code 2.
func IsPreflight(err error) bool {
	for _, target := range []error{
		ErrUnknownVariant,
		ErrUnsupportedSweep,
		ErrScriptNotFound,
		ErrInvalidSize,
		ErrInvalidArgument,
		ErrConfigInvalid,
		ErrConfigNil,
		ErrBaseConfMissing,
		ErrNotAFile,
		ErrInvalidOutputFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
