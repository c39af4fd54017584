package cmd

import (
	"github.com/dwops/batchgate/actions"
	"github.com/spf13/cobra"
)

var demoCfg = actions.DemoConfig{
	LogLevel: "info",
}

var createDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a synthetic batch in the landing directory",
	Long: `Generate deterministic customer, product and sales artifacts in
landing/<run date>/ so the pipeline can be exercised without a real source
endpoint or ETL tool. Use --populate-stage to also copy the artifacts into
stage/<run date>/ so a demo reconciliation passes immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		demoCfg.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunCreateDemo(&demoCfg)
	},
}

func init() {
	createCmd.AddCommand(createDemoCmd)
	createDemoCmd.Flags().SortFlags = false
	switches.addFlag(createDemoCmd, &demoCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.DataDir, "data-dir", "", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.Customers, "customers", "100", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.Products, "products", "50", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.SalesRows, "sales-rows", "1000", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.Seed, "seed", "42", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.PopulateStage, "populate-stage", "false", false, "")
	switches.addFlag(createDemoCmd, &demoCfg.LogLevel, "log-level", "info", false, "")
}
