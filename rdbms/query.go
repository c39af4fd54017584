package rdbms

import (
	"database/sql"
	"fmt"

	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms/shared"
	"golang.org/x/net/context"
)

// SqlQuery runs sqltext against db and sends the header then each row to the
// supplied SqlResultHandler. Values are scanned dynamically so any projection
// works.
func SqlQuery(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string, i shared.SqlResultHandler) error {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("error fetching columns: %w", err)
	}
	lenCols := len(cols)
	scanPtrs := make([]interface{}, lenCols)
	scanVals := make([]interface{}, lenCols)
	for idx := 0; idx < lenCols; idx++ { // for each column...
		scanPtrs[idx] = &scanVals[idx] // save the value.
	}
	// Build and send the header.
	header := make([]interface{}, lenCols)
	for idx := range cols {
		header[idx] = cols[idx]
	}
	if err = i.HandleHeader(header); err != nil {
		return err
	}
	// Send the rows via callback interface.
	for rows.Next() {
		select { // quit if asked to, else continue...
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return fmt.Errorf("error scanning row: %v", err)
		}
		// Make a new row.
		row := make([]interface{}, lenCols)
		for idx := range scanVals { // for each value...
			row[idx] = scanVals[idx]
		}
		if err = i.HandleRow(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SqlQueryScalarInt runs a query expected to produce a single row with a single
// numeric column, e.g. a COUNT(*), and returns its value.
func SqlQueryScalarInt(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string) (int64, error) {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return 0, fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() { // if the aggregate produced no row at all...
		return 0, fmt.Errorf("no rows returned for scalar query: '%v'", sqltext)
	}
	var v interface{}
	if err := rows.Scan(&v); err != nil {
		return 0, fmt.Errorf("error scanning scalar: %v", err)
	}
	return toInt64(v)
}

// SqlQueryScalarFloat is SqlQueryScalarInt for SUM()-style aggregates that may
// return NULL or a float; NULL maps to 0.
func SqlQueryScalarFloat(ctx context.Context, log logger.Logger, db shared.Connector, sqltext string) (float64, error) {
	rows, err := db.QueryContext(ctx, sqltext)
	if err != nil {
		return 0, fmt.Errorf("error during database query using SQL: '%v': %w", sqltext, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	if !rows.Next() {
		return 0, fmt.Errorf("no rows returned for scalar query: '%v'", sqltext)
	}
	var v interface{}
	if err := rows.Scan(&v); err != nil {
		return 0, fmt.Errorf("error scanning scalar: %v", err)
	}
	return toFloat64(v)
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case []uint8:
		var n sql.NullInt64
		if err := n.Scan(string(x)); err != nil {
			return 0, err
		}
		return n.Int64, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %T", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case []uint8:
		var n sql.NullFloat64
		if err := n.Scan(string(x)); err != nil {
			return 0, err
		}
		return n.Float64, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %T", v)
	}
}
