// Package checksum maintains the append-only acquisition audit log. Each
// acquired artifact gets one line recording its MD5 fingerprint so a batch can
// be traced back to the exact bytes that landed.
package checksum

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dwops/batchgate/constants"
)

// Entry is one audit line.
type Entry struct {
	Stamp    time.Time
	RunDate  string
	Artifact string
	Md5      string
}

// String renders the audit line format. Downstream audit tooling greps these
// lines so the format is part of the external contract.
func (e Entry) String() string {
	return fmt.Sprintf("%v | %v | %v | md5=%v", e.Stamp.Format(constants.TimeFormatLogStamp), e.RunDate, e.Artifact, e.Md5)
}

// Log appends entries to a per-date checksum file. Appending keeps earlier
// attempts for the same run date visible.
type Log struct {
	path string
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes one entry, creating the logs directory and file on first use.
func (l *Log) Append(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("error creating log directory for %v: %v", l.path, err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening checksum log %v: %v", l.path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := fmt.Fprintln(f, e.String()); err != nil {
		return fmt.Errorf("error writing checksum log %v: %v", l.path, err)
	}
	return nil
}
