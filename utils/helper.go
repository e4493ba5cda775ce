package utils

import (
	"os"
	"strings"
	"time"
)

// NowUTC returns the current wall-clock time in UTC, truncated to
// microseconds to match the precision of a stored timestamptz.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

const (
	TelescopeMid = "mid"
	TelescopeLow = "low"
)

// TelescopeType reads the facility type from the given env variable,
// defaulting to mid.
func TelescopeType(envVariable string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(envVariable)))
	if strings.Contains(v, TelescopeLow) {
		return TelescopeLow
	}
	return TelescopeMid
}

func EnvBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}
