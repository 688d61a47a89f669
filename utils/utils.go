package utils

import (
	"fmt"
	"time"
)

// ParseDeadline accepts the date-only format the SPA's date picker sends as
// well as full RFC3339 timestamps. An empty string means no deadline.
func ParseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid deadline %q, expected YYYY-MM-DD or RFC3339", s)
}
