package rdbms

import (
	"database/sql"
	"fmt"

	_ "github.com/IBM/nzgo/v12"
	_ "github.com/denisenkom/go-mssqldb"
	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms/shared"
	"github.com/xo/dburl"
)

// supportedDsnConnectionTypes is a map where keys are the connection types that
// are opened via generic DSN parsing. Snowflake and Netezza are handled
// explicitly so do not need to be here.
var supportedDsnConnectionTypes = map[string]struct{}{
	constants.ConnectionTypeSqlServer: {},
}

// IsSupportedConnectionType returns true if the supplied type can be opened as
// a warehouse connection.
func IsSupportedConnectionType(connectionType string) bool {
	switch connectionType {
	case constants.ConnectionTypeSnowflake, constants.ConnectionTypeNetezza, constants.ConnectionTypeMock:
		return true
	}
	_, ok := supportedDsnConnectionTypes[connectionType]
	return ok
}

// OpenDbConnection opens a warehouse connection using the supplied ConnectionDetails struct in c.
func OpenDbConnection(log logger.Logger, c shared.ConnectionDetails) (db shared.Connector, err error) {
	log.Debug("opening connection type ", c.Type, " with logicalName ", c.LogicalName) // don't log password details in c.Data!
	switch c.Type {
	case constants.ConnectionTypeSnowflake:
		db, err = newSnowflakeConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeNetezza:
		db, err = newNetezzaConnection(log, shared.GetDsnConnectionDetails(&c))
	case constants.ConnectionTypeMock:
		db, _ = shared.NewMockConnection(log)
	default:
		if _, ok := supportedDsnConnectionTypes[c.Type]; ok { // if the connection type is supported...
			db, err = newConnectionWithDsn(log, shared.GetDsnConnectionDetails(&c))
		} else { // else we have an unsupported database...
			err = fmt.Errorf("unsupported database type, %q", c.Type)
		}
	}
	return
}

func newConnectionWithDsn(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	log.Info("Opening database connection: ", d)
	u, err := dburl.Parse(d.Dsn)
	if err != nil { // if the DSN could not be parsed...
		return nil, fmt.Errorf("error parsing DSN %q: %w", d.Dsn, err)
	}
	conn := &shared.DbConnection{DbType: u.OriginalScheme}
	conn.DbSql, err = sql.Open(u.Driver, u.DSN)
	if err != nil {
		return nil, err
	}
	err = conn.DbSql.Ping()
	if err != nil {
		return nil, err
	}
	log.Info("Successful connection to: ", d)
	return conn, nil
}

func newNetezzaConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	conn := &shared.DbConnection{DbType: constants.ConnectionTypeNetezza}
	n := shared.NetezzaConnectionDetails{Dsn: d.Dsn}
	dsn, err := n.GetNzgoConnectionString()
	if err != nil {
		return nil, err
	}
	if conn.DbSql, err = sql.Open("nzgo", dsn); err != nil {
		return nil, err
	}
	if err = conn.DbSql.Ping(); err != nil {
		return nil, err
	}
	log.Info("Successful database connection to Netezza.")
	return conn, nil
}
