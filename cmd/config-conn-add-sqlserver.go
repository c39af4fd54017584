package cmd

import (
	"fmt"

	"github.com/dwops/batchgate/actions"
	"github.com/dwops/batchgate/config"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/rdbms/shared"
	"github.com/spf13/cobra"
)

var configConnSqlServerCfg = &actions.ConnectionConfig{}
var sqlServerConn = shared.DsnConnectionDetails{}

var configConnAddSqlServerCmd = &cobra.Command{
	Use:   "sqlserver",
	Short: "Add a SQL Server connection",
	Long: fmt.Sprintf(`Add a SQL Server connection to the config store %q
by providing a DSN of the form:

sqlserver://<user>:<password>@<host>[:<port>]?database=<database-name>`,
		config.Connections.FullPath),
	RunE: func(cmd *cobra.Command, args []string) error {
		configConnSqlServerCfg.Type = constants.ConnectionTypeSqlServer
		configConnSqlServerCfg.ConfigFile = getConnectionGetterSetter()
		configConnSqlServerCfg.ConnDetails = sqlServerConn
		cmd.SilenceUsage = true
		return actions.RunConnectionAdd(configConnSqlServerCfg)
	},
}

func init() {
	configConnAddCmd.AddCommand(configConnAddSqlServerCmd)
	configConnAddSqlServerCmd.Flags().SortFlags = false
	switches.addFlag(configConnAddSqlServerCmd, &configConnSqlServerCfg.LogicalName, "connection-name", "", true, "")
	switches.addFlag(configConnAddSqlServerCmd, &configConnSqlServerCfg.Force, "force-connection", "", false, "")
	switches.addFlag(configConnAddSqlServerCmd, &sqlServerConn.Dsn, "dsn", "", false, "")
}
