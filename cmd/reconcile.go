package cmd

import (
	"github.com/dwops/batchgate/actions"
	"github.com/spf13/cobra"
)

var reconcileCfg = actions.ReconcileConfig{
	LogLevel: "info",
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Compare landing vs stage row counts for a run date",
	Long: `Compare per-artifact data row counts between landing/<run date>/ and
stage/<run date>/. The check fails fast on the first artifact that is missing
from stage or whose row count differs. An empty landing directory passes
with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runReconcileAction()
	},
}

func runReconcileAction() error {
	reconcileCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunReconcile(&reconcileCfg)
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().SortFlags = false
	switches.addFlag(reconcileCmd, &reconcileCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(reconcileCmd, &reconcileCfg.DataDir, "data-dir", "", false, "")
	switches.addFlag(reconcileCmd, &reconcileCfg.Output, "output", "", false, "")
	switches.addFlag(reconcileCmd, &reconcileCfg.LogLevel, "log-level", "info", false, "")
}
