package tool

import (
	"github.com/charmbracelet/log"
)

var DefaultLogger = log.Default()

func InitLogger() {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
}

// SetDebug switches the default logger to debug level for wire tracing.
func SetDebug(enabled bool) {
	if enabled {
		DefaultLogger.SetLevel(log.DebugLevel)
	} else {
		DefaultLogger.SetLevel(log.InfoLevel)
	}
}
