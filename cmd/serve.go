package cmd

import (
	"net"

	"github.com/dwops/batchgate/actions"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service and listen for batch launch requests",
	Long: `Start a web service so schedulers can launch batches with a POST to
/batches/<run date>/run and poll /batches/<run date>/status for the outcome`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig.Connections = getConnectionHandlerLoader()
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel: "info",
	Scheme:   "http",
	Addr:     net.IP{0, 0, 0, 0},
	Port:     8080,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
	switches.addFlag(serveCmd, &serveConfig.DataDir, "data-dir", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.SourceConnection, "source-connection", "", true, "")
	switches.addFlag(serveCmd, &serveConfig.TargetConnection, "target-connection", "", true, "")
	switches.addFlag(serveCmd, &serveConfig.PromoteCommand, "promote-cmd", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.LoadCommand, "load-cmd", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.PolicyRule, "policy-rule", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.StrictGate, "strict-gate", "false", false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
}
