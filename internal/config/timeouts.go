package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	HTTP              time.Duration // Per-request timeout for remote API calls
	Task              time.Duration // Deadline for a Cloud Director task to finish
	TaskPollInterval  time.Duration // Interval between task status polls
	RetryMaxAttempts  int           // Retry attempts for transient transport failures
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VCD_TIMEOUT_HTTP (default: 2m)
//   - VCD_TIMEOUT_TASK (default: 10m)
//   - VCD_TASK_POLL_INTERVAL (default: 5s)
//   - VCD_RETRY_MAX_ATTEMPTS (default: 5)
//   - VCD_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		HTTP:              parseDuration("VCD_TIMEOUT_HTTP", 2*time.Minute),
		Task:              parseDuration("VCD_TIMEOUT_TASK", 10*time.Minute),
		TaskPollInterval:  parseDuration("VCD_TASK_POLL_INTERVAL", 5*time.Second),
		RetryMaxAttempts:  parseInt("VCD_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("VCD_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
