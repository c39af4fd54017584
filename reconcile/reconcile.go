// Package reconcile verifies that the external staging transfer moved every
// landed artifact intact, by comparing per-file data row counts between the
// landing and stage directories for a run date.
package reconcile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dwops/batchgate/artifact"
	"github.com/dwops/batchgate/logger"
)

// CheckState tracks one artifact through the reconciliation pass.
type CheckState int

const (
	StatePending CheckState = iota
	StateChecking
	StatePassed
	StateFailed
)

func (s CheckState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateChecking:
		return "checking"
	case StatePassed:
		return "passed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MissingArtifactError means a landed artifact never arrived in stage.
type MissingArtifactError struct {
	Artifact string
}

func (e MissingArtifactError) Error() string {
	return fmt.Sprintf("MissingArtifact: %v not found in stage directory", e.Artifact)
}

// RowCountMismatchError means the staged copy of an artifact gained or lost rows.
type RowCountMismatchError struct {
	Artifact string
	Source   int64
	Target   int64
}

func (e RowCountMismatchError) Error() string {
	return fmt.Sprintf("RowCountMismatch: %v src=%v tgt=%v", e.Artifact, e.Source, e.Target)
}

// ArtifactResult is the outcome for one artifact.
type ArtifactResult struct {
	Name       string     `json:"name" yaml:"name"`
	State      CheckState `json:"-" yaml:"-"`
	Status     string     `json:"status" yaml:"status"`
	SourceRows int64      `json:"sourceRows" yaml:"sourceRows"`
	TargetRows int64      `json:"targetRows" yaml:"targetRows"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	RunDate       string           `json:"runDate" yaml:"runDate"`
	ArtifactCount int              `json:"artifactCount" yaml:"artifactCount"`
	Artifacts     []ArtifactResult `json:"artifacts" yaml:"artifacts"`
}

// Reconciler compares landing and stage directories for one run date.
type Reconciler struct {
	log        logger.Logger
	runDate    string
	landingDir string
	stageDir   string
}

func NewReconciler(log logger.Logger, runDate string, landingDir string, stageDir string) *Reconciler {
	return &Reconciler{log: log, runDate: runDate, landingDir: landingDir, stageDir: stageDir}
}

// Run checks each landing artifact against its staged counterpart in lexical
// order and fails fast on the first missing file or row count mismatch.
// An empty landing directory passes with a warning since some sources
// legitimately produce nothing for a date.
func (r *Reconciler) Run() (*Result, error) {
	result := &Result{RunDate: r.runDate}
	names, err := artifact.ListDir(r.landingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("landing directory %v does not exist: acquire the batch first", r.landingDir)
		}
		return nil, err
	}
	result.ArtifactCount = len(names)
	if len(names) == 0 { // if the source produced nothing for this date...
		r.log.Warn("no artifacts found in ", r.landingDir, " - nothing to reconcile")
		return result, nil
	}
	for _, name := range names {
		ar := ArtifactResult{Name: name, State: StatePending}
		ar.State = StateChecking
		srcRows, err := artifact.DataRowCount(filepath.Join(r.landingDir, name))
		if err != nil {
			ar.State = StateFailed
			ar.Status = ar.State.String()
			result.Artifacts = append(result.Artifacts, ar)
			return result, fmt.Errorf("error counting rows in landing artifact %v: %v", name, err)
		}
		ar.SourceRows = srcRows
		stagePath := filepath.Join(r.stageDir, name)
		if _, err := os.Stat(stagePath); os.IsNotExist(err) { // if the transfer dropped the file...
			ar.State = StateFailed
			ar.Status = ar.State.String()
			result.Artifacts = append(result.Artifacts, ar)
			return result, MissingArtifactError{Artifact: name}
		}
		tgtRows, err := artifact.DataRowCount(stagePath)
		if err != nil {
			ar.State = StateFailed
			ar.Status = ar.State.String()
			result.Artifacts = append(result.Artifacts, ar)
			return result, fmt.Errorf("error counting rows in staged artifact %v: %v", name, err)
		}
		ar.TargetRows = tgtRows
		if srcRows != tgtRows { // if the transfer gained or lost rows...
			ar.State = StateFailed
			ar.Status = ar.State.String()
			result.Artifacts = append(result.Artifacts, ar)
			return result, RowCountMismatchError{Artifact: name, Source: srcRows, Target: tgtRows}
		}
		ar.State = StatePassed
		ar.Status = ar.State.String()
		result.Artifacts = append(result.Artifacts, ar)
		r.log.Info(fmt.Sprintf("reconciled %v rows=%v", name, srcRows))
	}
	return result, nil
}
