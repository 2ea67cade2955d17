package config

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Call this to configure the logrus logger for the deployer programs.
// Set the loglevel, formatter, color options, etc.

const LogLevelEnv = "DEPLOYER_LOG_LEVEL"
const LogFormatEnv = "DEPLOYER_LOG_FORMAT"

func ConfigureLogger(levelMaybe ...string) {
	time.Local = time.FixedZone("UTC", 0)
	logrus.SetLevel(logrus.InfoLevel)

	level := os.Getenv(LogLevelEnv)
	if len(levelMaybe) > 0 && levelMaybe[0] != "" {
		level = levelMaybe[0]
	}

	switch level {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	format := os.Getenv(LogFormatEnv)
	if format == "" {
		format = "color-text"
	}
	switch strings.ToLower(format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
		})
	case "color-text":
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: false,
			ForceColors:   true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format":  format,
			"options": []string{"json", "text", "color-text"},
		}).Warn("unknown format")
	}
}

// LevelFromVerbosity maps a -v count to a log level. With no -v the env setting applies.
func LevelFromVerbosity(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "info"
	case count == 2:
		return "debug"
	default:
		return "trace"
	}
}
