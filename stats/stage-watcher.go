// Package stats tracks per-stage timing and volume for a batch run. The run
// action logs a summary at the end of each attempt and the web server exposes
// the same numbers on its status endpoint.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// StageWatcher captures timing and counters for one pipeline stage.
type StageWatcher struct {
	stageName string
	startTime time.Time
	endTime   time.Time
	running   int32
	artifacts int64
	rows      int64
}

// Stats is the rendered snapshot of one stage.
type Stats struct {
	StageName      string `json:"stageName"`
	StatusText     string `json:"statusText"`
	ElapsedTimeSec int    `json:"elapsedTimeSec"`
	Artifacts      int    `json:"artifacts"`
	Rows           int    `json:"rows"`
}

func NewStageWatcher(stageName string) *StageWatcher {
	return &StageWatcher{stageName: stageName}
}

func (w *StageWatcher) Start() {
	w.startTime = time.Now()
	atomic.StoreInt32(&w.running, 1)
}

func (w *StageWatcher) Stop() {
	w.endTime = time.Now()
	atomic.StoreInt32(&w.running, 0)
}

// AddArtifacts records artifacts handled by the stage.
func (w *StageWatcher) AddArtifacts(n int64) {
	atomic.AddInt64(&w.artifacts, n)
}

// AddRows records data rows handled by the stage.
func (w *StageWatcher) AddRows(n int64) {
	atomic.AddInt64(&w.rows, n)
}

// RenderStats gets a struct filled with stats at the point in time it is called.
func (w *StageWatcher) RenderStats() Stats {
	var statusText string
	var elapsed time.Duration
	if atomic.LoadInt32(&w.running) == 1 {
		statusText = "running"
		elapsed = time.Since(w.startTime)
	} else if w.endTime.IsZero() {
		statusText = "pending"
	} else {
		statusText = "complete"
		elapsed = w.endTime.Sub(w.startTime)
	}
	return Stats{
		StageName:      w.stageName,
		StatusText:     statusText,
		ElapsedTimeSec: int(elapsed.Seconds()),
		Artifacts:      int(atomic.LoadInt64(&w.artifacts)),
		Rows:           int(atomic.LoadInt64(&w.rows)),
	}
}

// String will format the stats for general logging.
func (s Stats) String() string {
	return fmt.Sprintf(
		"Stats for %v %v elapsedTimeSec=%v artifacts=%v rows=%v",
		s.StageName, s.StatusText, s.ElapsedTimeSec, s.Artifacts, s.Rows)
}
