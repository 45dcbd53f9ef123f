package parse

import (
	"fmt"
	"time"
)

// Window parses a trend window size. Supports Go duration syntax
// (e.g. "720h") plus "Nd" for days, which time.ParseDuration lacks.
func Window(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("window must not be empty")
	}

	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return 0, fmt.Errorf("invalid window %q: %w", s, err)
		}
		if days <= 0 {
			return 0, fmt.Errorf("window must be positive, got %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("window must be positive, got %q", s)
	}
	return d, nil
}
