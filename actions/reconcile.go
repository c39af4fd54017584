package actions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/reconcile"
	"github.com/dwops/batchgate/stats"
	"github.com/ghodss/yaml"
)

// ReconcileConfig drives the landing vs stage row count comparison for one
// run date.
type ReconcileConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	RunDate          string
	DataDir          string
	Output           string // yaml or json; empty means log lines only.
	// Watcher, when set, receives the artifact and row counts of the pass.
	Watcher *stats.StageWatcher
}

// RunReconcile compares per-artifact data row counts between the landing and
// stage directories and fails fast on the first discrepancy.
func RunReconcile(cfg *ReconcileConfig) error {
	log := logger.NewLogger("batchgate", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := batch.ParseRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	layout := batch.NewLayout(cfg.DataDir)
	r := reconcile.NewReconciler(log, runDate.String(), layout.LandingDir(runDate), layout.StageDir(runDate))
	result, err := r.Run()
	if result != nil && cfg.Watcher != nil { // record even a failed pass's progress...
		for _, a := range result.Artifacts {
			cfg.Watcher.AddArtifacts(1)
			cfg.Watcher.AddRows(a.SourceRows)
		}
	}
	if err != nil {
		return err
	}
	if err := renderReconcileResult(result, cfg.Output); err != nil {
		return err
	}
	log.Info("Reconciliation passed for batch ", runDate.String(), " [DONE]")
	return nil
}

func renderReconcileResult(result *reconcile.Result, format string) error {
	var b []byte
	var err error
	switch format {
	case "":
		return nil
	case "yaml":
		b, err = yaml.Marshal(result)
	case "json":
		b, err = json.MarshalIndent(result, "", "  ")
	default:
		return fmt.Errorf("unsupported output format %q: expected yaml or json", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}
