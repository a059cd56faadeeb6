package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// RateTable maps a work type to the contractor's price per acre
type RateTable map[string]float64

// Rate returns the rate declared for workType. Exact keys win over
// case-insensitive matches; among those the smallest key wins.
func (r RateTable) Rate(workType string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	if v, ok := r[workType]; ok {
		return v, true
	}
	want := strings.ToLower(strings.TrimSpace(workType))
	for _, k := range slices.Sorted(maps.Keys(r)) {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return r[k], true
		}
	}
	return 0, false
}

// UnmarshalJSON accepts the shapes rate tables have been stored in:
// a plain object ({"plumbing": 50}), a serialized map ([["plumbing", 50]])
// and numeric strings as values. Entries that are not numeric are dropped.
func (r *RateTable) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	out := RateTable{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*r = out
		return nil

	case data[0] == '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("rate table object: %w", err)
		}
		for k, v := range raw {
			if f, ok := parseRate(v); ok {
				out[k] = f
			}
		}

	case data[0] == '[':
		var pairs [][]json.RawMessage
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("rate table pairs: %w", err)
		}
		for _, p := range pairs {
			if len(p) != 2 {
				continue
			}
			var k string
			if err := json.Unmarshal(p[0], &k); err != nil {
				continue
			}
			if f, ok := parseRate(p[1]); ok {
				out[k] = f
			}
		}

	default:
		return fmt.Errorf("rate table: unsupported JSON value %q", string(data))
	}

	*r = out
	return nil
}

func parseRate(v json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
