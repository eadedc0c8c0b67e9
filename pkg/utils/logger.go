package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// InitLogger configures the shared logger. In production it appends to
// logs/app.log under the project root; otherwise it writes to stdout.
func InitLogger(level, env string) {
	Logger.SetReportCaller(true)

	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		PrettyPrint:     false,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return "", filename + ":" + strconv.Itoa(f.Line)
		},
	})

	switch level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	Logger.Out = os.Stdout
	if env != "production" {
		return
	}

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		Logger.Warn("Failed to get caller information, using stdout instead")
		return
	}
	logDir, err := filepath.Abs(filepath.Join(filepath.Dir(currentFile), "../..", "logs"))
	if err != nil {
		Logger.WithError(err).Warn("Failed to resolve project root path, using stdout instead")
		return
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		Logger.WithError(err).Warn("Failed to create logs directory, using stdout instead")
		return
	}

	file, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		Logger.WithError(err).Warn("Failed to log to file, using stdout instead")
		return
	}
	Logger.Out = file
}
