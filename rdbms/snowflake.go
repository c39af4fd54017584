package rdbms

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms/shared"
	sf "github.com/snowflakedb/gosnowflake"
)

// SnowflakeConnectionDetails holds a Snowflake DSN supplied via the config
// commands. Validation is delegated to the gosnowflake parser.
type SnowflakeConnectionDetails struct {
	Dsn string `errorTxt:"data source name i.e. connect string" mandatory:"yes"`
}

func (d SnowflakeConnectionDetails) Parse() error {
	_, err := SnowflakeParseDSN(d.Dsn)
	return err
}

func (d SnowflakeConnectionDetails) GetScheme() (string, error) {
	return constants.ConnectionTypeSnowflake, nil
}

func (d SnowflakeConnectionDetails) GetMap(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[shared.DefaultDsnConnectionKeyNames.Dsn] = d.Dsn
	return m
}

// SnowflakeParseDSN validates a Snowflake DSN of the form accepted by
// gosnowflake: user:password@account/database/schema?warehouse=wh&role=r
func SnowflakeParseDSN(dsn string) (*sf.Config, error) {
	dsn = strings.TrimPrefix(dsn, constants.ConnectionTypeSnowflake+"://")
	cfg, err := sf.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing Snowflake DSN: %w", err)
	}
	return cfg, nil
}

// SnowflakeGetDSN rebuilds the DSN string from parsed Snowflake config.
func SnowflakeGetDSN(cfg *sf.Config) (string, error) {
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("error building Snowflake DSN: %w", err)
	}
	return dsn, nil
}

// newSnowflakeConnection opens the Snowflake database connection specified in d.
func newSnowflakeConnection(log logger.Logger, d *shared.DsnConnectionDetails) (shared.Connector, error) {
	cfg, err := SnowflakeParseDSN(d.Dsn)
	if err != nil {
		return nil, err
	}
	dsn, err := SnowflakeGetDSN(cfg)
	if err != nil {
		return nil, err
	}
	conn := &shared.DbConnection{DbType: constants.ConnectionTypeSnowflake}
	if conn.DbSql, err = sql.Open("snowflake", dsn); err != nil {
		return nil, err
	}
	if err = conn.DbSql.Ping(); err != nil {
		return nil, err
	}
	log.Info("Successful database connection to Snowflake.")
	return conn, nil
}
