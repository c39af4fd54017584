package cmd

import (
	"github.com/dwops/batchgate/actions"
	"github.com/spf13/cobra"
)

var acquireCfg = actions.AcquireConfig{
	LogLevel: "info",
}

var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Pull a batch's vendor extracts from S3 into the landing directory",
	Long: `Pull every registered vendor extract for the run date from the source S3
bucket into landing/<run date>/ and append an MD5 audit line per artifact to
logs/checksums_<run date>.log. A registered artifact missing from the bucket
is fatal since downstream loads require the full set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runAcquireAction()
	},
}

func runAcquireAction() error {
	acquireCfg.Connections = getConnectionHandler()
	acquireCfg.StackDumpOnPanic = stackDumpOnPanic
	return actions.RunAcquire(&acquireCfg)
}

func init() {
	rootCmd.AddCommand(acquireCmd)
	acquireCmd.Flags().SortFlags = false
	switches.addFlag(acquireCmd, &acquireCfg.RunDate, "run-date", "", false, "")
	switches.addFlag(acquireCmd, &acquireCfg.DataDir, "data-dir", "", false, "")
	switches.addFlag(acquireCmd, &acquireCfg.SourceConnection, "source-connection", "", true, "")
	switches.addFlag(acquireCmd, &acquireCfg.LogLevel, "log-level", "info", false, "")
}
