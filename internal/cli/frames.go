// internal/cli/frames.go
package cli

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseFrames turns a --frames directive into an explicit index sequence.
// "all" (or empty) returns nil, meaning every frame the source reports.
// "start:stop[:step]" is a half-open range; "0,5,9" is an explicit list.
func ParseFrames(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return nil, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, errors.Newf("cli: malformed frame range %q", s)
		}
		start, err := frameIndex(parts[0])
		if err != nil {
			return nil, err
		}
		stop, err := frameIndex(parts[1])
		if err != nil {
			return nil, err
		}
		step := 1
		if len(parts) == 3 {
			if step, err = strconv.Atoi(strings.TrimSpace(parts[2])); err != nil || step <= 0 {
				return nil, errors.Newf("cli: frame step in %q must be a positive integer", s)
			}
		}
		if stop < start {
			return nil, errors.Newf("cli: frame range %q has stop before start", s)
		}
		out := make([]int, 0, (stop-start+step-1)/step)
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
		return out, nil
	}

	var out []int
	for _, part := range strings.Split(s, ",") {
		i, err := frameIndex(part)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func frameIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return 0, errors.Newf("cli: frame index %q must be a non-negative integer", strings.TrimSpace(s))
	}
	return i, nil
}
