// Package auth identifies API callers by bearer key and throttles clients
// that keep presenting bad keys.
package auth

import (
	"os"
	"strconv"
)

// DefaultFailuresPerMinute is how many invalid keys one client may present
// per minute before being refused with 429.
const DefaultFailuresPerMinute = 10

// Config holds authentication configuration.
type Config struct {
	// RequireAuth makes write endpoints reject anonymous callers.
	RequireAuth       bool
	FailuresPerMinute int
}

// ConfigFromEnv creates a Config from ET_REQUIRE_AUTH and
// ET_AUTH_FAILURES_PER_MIN.
func ConfigFromEnv() Config {
	cfg := Config{
		RequireAuth:       os.Getenv("ET_REQUIRE_AUTH") == "true",
		FailuresPerMinute: DefaultFailuresPerMinute,
	}
	if v, err := strconv.Atoi(os.Getenv("ET_AUTH_FAILURES_PER_MIN")); err == nil && v > 0 {
		cfg.FailuresPerMinute = v
	}
	return cfg
}
