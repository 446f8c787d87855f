package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter receives application and SQL logs. InitLogging points it at
// stdout plus the log file; tools may swap it for stderr.
var LogWriter io.Writer = os.Stdout

// InitLogging appends to the log file at path and mirrors everything to
// stdout. When the file cannot be opened logging stays on stdout and the
// returned file is nil.
func InitLogging(path string) (*os.File, io.Writer) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("Warning: cannot create log directory for %s: %v", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: cannot open log file %s: %v", path, err)
		LogWriter = os.Stdout
	} else {
		LogWriter = io.MultiWriter(os.Stdout, f)
	}

	log.SetOutput(LogWriter)
	return f, LogWriter
}
