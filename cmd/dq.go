package cmd

import (
	"github.com/dwops/batchgate/actions"
	"github.com/spf13/cobra"
)

var dqCfg = actions.QualityGateConfig{
	LogLevel: "info",
}

var dqCmd = &cobra.Command{
	Use:   "dq",
	Short: "Run the data quality gate against the loaded warehouse",
	Long: `Run the post-load check battery against the target warehouse: negative
quantities and amounts, orphaned fact keys, duplicate current product
versions, plus informational yearly and VIP sales aggregates. The counts are
evaluated against a JsonLogic policy; with --strict-gate a failed policy
makes the process exit nonzero. Supply --parity-value to also compare the
trailing-year gross margin KPI against a legacy cube value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runQualityGateAction()
	},
}

func runQualityGateAction() error {
	dqCfg.Connections = getConnectionLoader()
	dqCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunQualityGate(&dqCfg)
}

func init() {
	rootCmd.AddCommand(dqCmd)
	dqCmd.Flags().SortFlags = false
	switches.addFlag(dqCmd, &dqCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(dqCmd, &dqCfg.TargetConnection, "target-connection", "", true, "")
	switches.addFlag(dqCmd, &dqCfg.PolicyRule, "policy-rule", "", false, "")
	switches.addFlag(dqCmd, &dqCfg.Strict, "strict-gate", "false", false, "")
	switches.addFlag(dqCmd, &dqCfg.ParityValue, "parity-value", "0", false, "")
	switches.addFlag(dqCmd, &dqCfg.ParityTolerance, "parity-tolerance", "0.01", false, "")
	switches.addFlag(dqCmd, &dqCfg.Output, "output", "", false, "")
	switches.addFlag(dqCmd, &dqCfg.LogLevel, "log-level", "info", false, "")
}
