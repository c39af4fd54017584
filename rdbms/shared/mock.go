package shared

import (
	"context"
	"fmt"
	"sync"

	"github.com/dwops/batchgate/logger"
)

// MockQueryResult is a canned result set keyed by SQL text.
type MockQueryResult struct {
	Cols []string
	Rows [][]interface{}
}

// MockConnection implements Connector for tests. Queries are answered from a
// map of canned results keyed by exact SQL text; unknown SQL returns an empty
// result set. Every statement seen is sent to a channel so tests can assert
// the SQL that was executed.
type MockConnection struct {
	log     logger.Logger
	mu      sync.Mutex
	results map[string]MockQueryResult
	chanSql chan string
}

// NewMockConnection returns a mock Connector and a channel that receives each
// SQL statement executed against it.
func NewMockConnection(log logger.Logger) (*MockConnection, chan string) {
	c := &MockConnection{
		log:     log,
		results: make(map[string]MockQueryResult),
		chanSql: make(chan string, 100),
	}
	return c, c.chanSql
}

// AddResult registers a canned result for the given SQL text.
func (c *MockConnection) AddResult(sqlText string, cols []string, rows [][]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[sqlText] = MockQueryResult{Cols: cols, Rows: rows}
}

func (c *MockConnection) captureSql(query string) {
	select {
	case c.chanSql <- query:
	default: // don't block tests that ignore the channel.
	}
}

func (c *MockConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	c.captureSql(query)
	return mockResult{}, nil
}

func (c *MockConnection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	c.captureSql(query)
	c.mu.Lock()
	r, ok := c.results[query]
	c.mu.Unlock()
	if !ok { // if there is no canned result for this SQL...
		c.log.Debug("mock connection returning empty result set for query: ", query)
		return &mockRows{cols: []string{"col1"}}, nil
	}
	return &mockRows{cols: r.Cols, rows: r.Rows}, nil
}

func (c *MockConnection) Close() {}

func (c *MockConnection) GetType() string {
	return "mock"
}

type mockResult struct{}

func (m mockResult) LastInsertId() (int64, error) { return 0, nil }
func (m mockResult) RowsAffected() (int64, error) { return 0, nil }

type mockRows struct {
	cols []string
	rows [][]interface{}
	idx  int
}

func (r *mockRows) Next() bool {
	return r.idx < len(r.rows)
}

func (r *mockRows) Scan(dest ...interface{}) error {
	if r.idx >= len(r.rows) {
		return fmt.Errorf("scan called past end of mock rows")
	}
	row := r.rows[r.idx]
	r.idx++
	if len(dest) != len(row) {
		return fmt.Errorf("expected %v scan targets; got %v", len(row), len(dest))
	}
	for i := range dest {
		switch p := dest[i].(type) {
		case *interface{}:
			*p = row[i]
		case *int64:
			switch v := row[i].(type) {
			case int64:
				*p = v
			case int:
				*p = int64(v)
			default:
				return fmt.Errorf("cannot scan %T into *int64", row[i])
			}
		case *float64:
			switch v := row[i].(type) {
			case float64:
				*p = v
			case int64:
				*p = float64(v)
			case int:
				*p = float64(v)
			default:
				return fmt.Errorf("cannot scan %T into *float64", row[i])
			}
		case *string:
			*p = fmt.Sprint(row[i])
		default:
			return fmt.Errorf("unsupported scan target type %T in mock rows", dest[i])
		}
	}
	return nil
}

func (r *mockRows) Columns() ([]string, error) {
	return r.cols, nil
}

func (r *mockRows) Close() error { return nil }

func (r *mockRows) Err() error { return nil }
