package cmd

import (
	"fmt"

	"github.com/dwops/batchgate/actions"
	"github.com/dwops/batchgate/config"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/rdbms/shared"
	"github.com/spf13/cobra"
)

var configConnNetezzaCfg = &actions.ConnectionConfig{}
var netezzaConn = shared.NetezzaConnectionDetails{}

var configConnAddNetezzaCmd = &cobra.Command{
	Use:   "netezza",
	Short: "Add a Netezza connection",
	Long: fmt.Sprintf(`Add a Netezza connection to the config store %q
by providing a DSN of the form:

netezza://<user>/<password>@//<host>:<port>/<database-name>`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnNetezzaCfg.Type = constants.ConnectionTypeNetezza
		configConnNetezzaCfg.ConfigFile = getConnectionGetterSetter()
		configConnNetezzaCfg.ConnDetails = netezzaConn
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnNetezzaCfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddNetezzaCmd)
	configConnAddNetezzaCmd.Flags().SortFlags = false
	switches.addFlag(configConnAddNetezzaCmd, &configConnNetezzaCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddNetezzaCmd, &configConnNetezzaCfg.Force, "force-connection", "", false, "")
	switches.addFlag(configConnAddNetezzaCmd, &netezzaConn.Dsn, "dsn", "", false, "")
}
