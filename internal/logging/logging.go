package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build returns the logger shared by the HTTP service and the Lambda steps.
//
// prod gets sampled JSON lines; any other env gets the development console
// encoder with caller info. Both write to stdout, which
// is where the checks' diagnostic lines are expected. An unknown level is
// reported on stderr and replaced by info.
func Build(level, env string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, ok := ParseLevel(level)
	if !ok {
		_, _ = os.Stderr.WriteString("WARNING: invalid log level \"" + level + "\", using info\n")
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// ParseLevel maps a case-insensitive level name to a zap level. It returns
// info and false for names zap does not know.
func ParseLevel(level string) (zapcore.Level, bool) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

// MustBuild is Build for main functions: it exits when the logger cannot be
// constructed, since nothing else could report the failure.
func MustBuild(level, env string) *zap.Logger {
	logger, err := Build(level, env)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}
