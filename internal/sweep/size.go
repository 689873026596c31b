package sweep

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scachelab/shufflebench/internal/errors"
)

// sizeRe matches a magnitude with an optional unit alias.
var sizeRe = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*([A-Za-z]*)$`)

// unitMultipliers maps the accepted unit aliases to binary multipliers.
// The short and long forms are equivalent: the external system's size
// grammar is 1024-based throughout, so "kb" here is 1024, not 1000.
var unitMultipliers = map[string]int64{
	"":   1,
	"b":  1,
	"k":  1 << 10,
	"kb": 1 << 10,
	"m":  1 << 20,
	"mb": 1 << 20,
	"g":  1 << 30,
	"gb": 1 << 30,
	"t":  1 << 40,
	"tb": 1 << 40,
}

// ParseSize parses a magnitude-plus-unit size string (case-insensitive,
// binary units) into a byte count. Used to validate capacity sweep values
// up front; the literal string, not this number, is what gets written into
// the generated configuration.
func ParseSize(s string) (int64, error) {
	m := sizeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, errors.Wrapf(errors.ErrInvalidSize, "%q", s)
	}

	mult, ok := unitMultipliers[strings.ToLower(m[2])]
	if !ok {
		return 0, errors.Wrapf(errors.ErrInvalidSize, "%q: unknown unit %q", s, m[2])
	}

	mag, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInvalidSize, "%q", s)
	}
	return int64(mag * float64(mult)), nil
}
