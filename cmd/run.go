package cmd

import (
	"github.com/dwops/batchgate/actions"
	"github.com/dwops/batchgate/logger"
	"github.com/spf13/cobra"
)

var runCfg = actions.PipelineConfig{
	LogLevel: "info",
}

var runPromoteCommand string
var runLoadCommand string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full batch pipeline for a run date",
	Long: `Run the full batch pipeline: acquire vendor extracts from S3, promote them
to the stage directory via your ETL tool, reconcile landing vs stage row
counts, load the warehouse and finish with the data quality gate.
The pipeline stops at the first failing stage and exits nonzero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runPipelineAction()
	},
}

func runPipelineAction() error {
	log := logger.NewLogger("batchgate", runCfg.LogLevel, stackDumpOnPanic)
	runCfg.Connections = getConnectionHandlerLoader()
	runCfg.StackDumpOnPanic = stackDumpOnPanic
	runCfg.PromoteStep = actions.NewCommandStep(log, "promote", runPromoteCommand)
	runCfg.LoadStep = actions.NewCommandStep(log, "load", runLoadCommand)
	return actions.RunPipeline(&runCfg)
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SortFlags = false
	switches.addFlag(runCmd, &runCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(runCmd, &runCfg.DataDir, "data-dir", "", false, "")
	switches.addFlag(runCmd, &runCfg.SourceConnection, "source-connection", "", true, "")
	switches.addFlag(runCmd, &runCfg.TargetConnection, "target-connection", "", true, "")
	switches.addFlag(runCmd, &runPromoteCommand, "promote-cmd", "", false, "")
	switches.addFlag(runCmd, &runLoadCommand, "load-cmd", "", false, "")
	switches.addFlag(runCmd, &runCfg.PolicyRule, "policy-rule", "", false, "")
	switches.addFlag(runCmd, &runCfg.StrictGate, "strict-gate", "true", false, "")
	switches.addFlag(runCmd, &runCfg.Output, "output", "", false, "")
	switches.addFlag(runCmd, &runCfg.LogLevel, "log-level", "info", false, "")
}
