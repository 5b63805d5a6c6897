package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRanks parses a comma separated rank list such as "1,2,5" or a range
// "1-4". "none" and the empty string yield an empty, non-nil list.
func ParseRanks(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	ranks := []int{}
	if s == "" || strings.EqualFold(s, "none") {
		return ranks, nil
	}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("rank %q: %w", part, err)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("rank %q: %w", part, err)
			}
		}
		if b < a {
			return nil, fmt.Errorf("rank range %q is reversed", part)
		}
		for r := a; r <= b; r++ {
			ranks = append(ranks, r)
		}
	}
	return ranks, nil
}

// ParseFactors parses three comma separated channel weights, e.g.
// "0.3,0.3,0.4".
func ParseFactors(s string) ([3]float64, error) {
	var f [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return f, fmt.Errorf("factors %q: want 3 comma separated values, got %d", s, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return f, fmt.Errorf("factors %q: %w", s, err)
		}
		f[i] = v
	}
	return f, nil
}
