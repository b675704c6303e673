package vrecon

import (
	"os"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("vrecon")

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// SetupLogging sends logs to stderr at INFO, or at DEBUG if verbose.
func SetupLogging(verbose bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), format)
	leveled := logging.AddModuleLevel(backend)

	leveled.SetLevel(logging.INFO, "")
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	}
	logging.SetBackend(leveled)
}

// logWarnings logs the recoverable problems of a stage and returns their count.
func logWarnings(stage string, warns []error) int {
	for _, w := range warns {
		log.Warningf("%s: %v", stage, w)
	}
	return len(warns)
}
