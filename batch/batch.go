// Package batch defines the run-date partitioning contract shared by every
// pipeline stage. All persisted state (landing and stage directories, audit and
// orchestration logs, warehouse loads) is keyed by a YYYYMMDD run date so
// distinct batches never share files.
package batch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dwops/batchgate/constants"
	"github.com/rs/xid"
)

// RunDate identifies one batch.
type RunDate struct {
	t time.Time
}

// ParseRunDate parses a YYYYMMDD string. An empty string defaults to today,
// matching the behaviour of the schedulers that drive this tool.
func ParseRunDate(s string) (RunDate, error) {
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(constants.RunDateFormat, s)
	if err != nil {
		return RunDate{}, fmt.Errorf("invalid run date %q: expected format YYYYMMDD", s)
	}
	return RunDate{t: t}, nil
}

func Today() RunDate {
	return RunDate{t: time.Now()}
}

func (d RunDate) String() string {
	return d.t.Format(constants.RunDateFormat)
}

func (d RunDate) Year() int {
	return d.t.Year()
}

// NewAttemptID returns a unique ID for one processing attempt of a batch.
// Reprocessing the same run date creates a new attempt; attempt IDs make the
// orchestration log lines of each attempt distinguishable.
func NewAttemptID() string {
	return xid.New().String()
}

// Layout resolves the on-disk partitioning contract under a base data
// directory. External ETL tools and schedulers depend on these exact paths.
type Layout struct {
	BaseDir string
}

func NewLayout(baseDir string) Layout {
	if baseDir == "" {
		baseDir = "."
	}
	return Layout{BaseDir: baseDir}
}

// LandingDir is the first-touch area for artifacts pulled from the remote source.
func (l Layout) LandingDir(d RunDate) string {
	return filepath.Join(l.BaseDir, constants.DirLanding, d.String())
}

// StageDir is where the external ETL layer promotes artifacts to.
func (l Layout) StageDir(d RunDate) string {
	return filepath.Join(l.BaseDir, constants.DirStage, d.String())
}

func (l Layout) LogsDir() string {
	return filepath.Join(l.BaseDir, constants.DirLogs)
}

// ChecksumLogPath is the append-only audit log for acquisition checksums.
func (l Layout) ChecksumLogPath(d RunDate) string {
	return filepath.Join(l.LogsDir(), fmt.Sprintf("%v%v.%v", constants.ChecksumLogPrefix, d.String(), constants.LogFileExtension))
}

// OrchestrationLogPath is the per-date log written by the run action.
func (l Layout) OrchestrationLogPath(d RunDate) string {
	return filepath.Join(l.LogsDir(), fmt.Sprintf("%v%v.%v", constants.OrchestrationLogPrefix, d.String(), constants.LogFileExtension))
}
