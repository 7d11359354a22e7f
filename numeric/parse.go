// Package numeric converts locale-formatted financial text into typed numbers
// and estimates growth over noisy financial series.
package numeric

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable reports text that could not be converted to a number.
// Callers must treat this as distinct from a parsed value of zero.
var ErrUnparsable = errors.New("unparsable numeric value")

// currencyPrefix matches symbols like "S$", "$", "HK$", "€" or "£" at the
// start of a value.
var currencyPrefix = regexp.MustCompile(`^[A-Z]{0,3}\$|^€|^£`)

// ParsePlain converts comma-grouped numeric text into a float, stripping any
// currency prefix. It does not handle magnitude suffixes; this is the variant
// the DOM extractors use on table cells.
func ParsePlain(text string) (float64, error) {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, ",", "")
	t = currencyPrefix.ReplaceAllString(t, "")

	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsable, text)
	}
	return v, nil
}

// Parse converts numeric text into a float, handling comma grouping, currency
// prefixes and the "million"/"billion" magnitude suffixes. ParsePlain is a
// strict subset of this behaviour.
func Parse(text string) (float64, error) {
	t := strings.TrimSpace(text)

	factor := 1.0
	switch {
	case strings.Contains(t, "million"):
		factor = 1e6
		t = strings.Replace(t, "million", "", 1)
	case strings.Contains(t, "billion"):
		factor = 1e9
		t = strings.Replace(t, "billion", "", 1)
	}

	v, err := ParsePlain(strings.TrimSpace(t))
	if err != nil {
		return 0, err
	}
	return v * factor, nil
}
