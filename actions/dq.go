package actions

import (
	"fmt"
	"os"

	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/quality"
	"github.com/dwops/batchgate/rdbms"
	"golang.org/x/net/context"
)

// QualityGateConfig drives the post-load check battery against the warehouse.
type QualityGateConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	RunDate          string
	TargetConnection string `errorTxt:"target warehouse connection name" mandatory:"yes"`
	Connections      ConnectionLoader
	PolicyRule       string // JsonLogic rule; empty selects the default policy.
	Strict           bool   // a failed policy becomes a fatal error.
	Output           string // yaml or json; empty means log lines only.
	ParityValue      float64
	ParityTolerance  float64
}

// RunQualityGate executes the check battery, applies the gating policy and
// renders the report. With Strict set, a policy failure is returned as a
// QualityViolationError so callers exit nonzero.
func RunQualityGate(cfg *QualityGateConfig) error {
	log := logger.NewLogger("batchgate", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := batch.ParseRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	conn, err := cfg.Connections.LoadConnection(cfg.TargetConnection)
	if err != nil {
		return err
	}
	db, err := rdbms.OpenDbConnection(log, conn)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()
	report, err := quality.NewGate(log, db).Run(ctx, runDate.String())
	if err != nil {
		return err
	}
	if cfg.ParityValue != 0 { // if a legacy cube KPI was supplied for comparison...
		parity, err := quality.ParityCheck(ctx, log, db, cfg.ParityValue, cfg.ParityTolerance)
		if err != nil {
			return err
		}
		report.Parity = parity
	}
	policy, err := quality.NewPolicy(cfg.PolicyRule)
	if err != nil {
		return err
	}
	passed, err := policy.Evaluate(report)
	if err != nil {
		return err
	}
	report.Passed = passed
	if cfg.Output != "" {
		b, err := report.Render(cfg.Output)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(os.Stdout, string(b)); err != nil {
			return err
		}
	}
	if !passed {
		log.Warn("Quality gate failed for batch ", runDate.String())
		if cfg.Strict {
			return quality.QualityViolationError{RunDate: runDate.String(), Violations: report.Violations()}
		}
		return nil
	}
	log.Info("Quality gate passed for batch ", runDate.String(), " [DONE]")
	return nil
}
