package repositories

import (
	"time"
)

// QueryConfig tunes how repositories run list queries
type QueryConfig struct {
	// MaxLimit caps the limit a caller may request; 0 means uncapped
	MaxLimit int

	// SlowQueryThreshold makes queries slower than this log at warn level
	SlowQueryThreshold time.Duration
}

// DefaultQueryConfig returns the query configuration used by the functions
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		MaxLimit:           1000,
		SlowQueryThreshold: 2 * time.Second,
	}
}

// ClampLimit applies the configured maximum to a requested limit. It reports
// false when no limit was requested. Negative limits clamp to 0.
func (c QueryConfig) ClampLimit(limit *int) (int, bool) {
	if limit == nil {
		return 0, false
	}
	n := *limit
	if n < 0 {
		n = 0
	}
	if c.MaxLimit > 0 && n > c.MaxLimit {
		n = c.MaxLimit
	}
	return n, true
}
