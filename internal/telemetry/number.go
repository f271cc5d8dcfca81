package telemetry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a float64 that unmarshals from a JSON number, a numeric string,
// or a two-part "num/den" fraction string. Drone vendors are not consistent
// about which form a given field uses, sometimes within the same document.
type Number float64

// ParseNumber normalizes a raw string to a float: a value containing '/' is
// split once and divided, anything else is parsed directly.
func ParseNumber(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, fmt.Errorf("parsing numerator of '%s': %w", s, err)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil {
			return 0, fmt.Errorf("parsing denominator of '%s': %w", s, err)
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in '%s'", s)
		}
		return n / d, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing number '%s': %w", s, err)
	}
	return v, nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		v, err := ParseNumber(s)
		if err != nil {
			return err
		}

		*n = Number(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*n = Number(f)
	return nil
}

// Float returns the value of n, or def when n is nil. Missing sidecar fields
// fall back to documented defaults rather than failing.
func (n *Number) Float(def float64) float64 {
	if n == nil {
		return def
	}
	return float64(*n)
}
