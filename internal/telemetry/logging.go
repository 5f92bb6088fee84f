// Package telemetry centralises the daemon's file-based logging, grounded
// on the teacher's setupLogging (package-global InfoLog/ErrorLog loggers
// writing to ./logs), generalised into a struct so multiple daemon
// instances in tests don't share global state.
package telemetry

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Loggers bundles the three file-backed loggers the daemon writes through.
type Loggers struct {
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
}

// Setup opens (creating if necessary) server.log, error.log, and debug.log
// under dir and returns loggers writing to them with timestamp+file
// prefixes, matching the teacher's log.New flag set.
func Setup(dir string) (*Loggers, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	info, err := openLog(dir, "server.log")
	if err != nil {
		return nil, err
	}
	errF, err := openLog(dir, "error.log")
	if err != nil {
		return nil, err
	}
	dbg, err := openLog(dir, "debug.log")
	if err != nil {
		return nil, err
	}
	return &Loggers{
		Info:  log.New(info, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		Error: log.New(errF, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		Debug: log.New(dbg, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}, nil
}

func openLog(dir, name string) (io.Writer, error) {
	return os.OpenFile(filepath.Join(dir, name), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
}

// Discard returns loggers that write nowhere, for tests.
func Discard() *Loggers {
	return &Loggers{
		Info:  log.New(io.Discard, "", 0),
		Error: log.New(io.Discard, "", 0),
		Debug: log.New(io.Discard, "", 0),
	}
}
