package helpers

import (
	"strings"
	"time"

	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// ParseDuration parses a duration string, returns defaultDuration when it is empty or malformed.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	durationStr = strings.TrimSpace(durationStr)
	if durationStr == "" {
		return defaultDuration
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
