package log

import (
	"io"
	"os"

	"github.com/YuminosukeSato/cart/pkg/errors"
)

// SetupLogger installs a zerolog-backed provider at the given level as the
// process-wide provider and routes library warnings through it.
// A nil writer means os.Stderr.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	provider := NewZerologProvider(w, level)
	SetProvider(provider)

	warnLogger := provider.GetLoggerWithName("warnings")
	errors.SetZerologWarnFunc(func(warning error) {
		warnLogger.Warn(warning.Error(), ErrAttrKey, warning)
	})
	return nil
}

// ToLogLevel parses a level name.
func ToLogLevel(level string) (Level, error) {
	switch level {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}
