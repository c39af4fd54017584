package quality

import (
	"fmt"

	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms"
	"github.com/dwops/batchgate/rdbms/shared"
	"golang.org/x/net/context"
)

// Gate executes the check battery against one warehouse connection.
type Gate struct {
	log logger.Logger
	db  shared.Connector
}

func NewGate(log logger.Logger, db shared.Connector) *Gate {
	return &Gate{log: log, db: db}
}

// Run executes every hard check then the informational aggregates and returns
// the full report. A query failure aborts the run; a nonzero check count does
// not, it is recorded so the caller can apply its gating policy to the
// complete picture.
func (g *Gate) Run(ctx context.Context, runDate string) (*Report, error) {
	report := &Report{RunDate: runDate, Passed: true}
	for _, c := range HardChecks() {
		count, err := rdbms.SqlQueryScalarInt(ctx, g.log, g.db, c.Sql)
		if err != nil {
			return nil, fmt.Errorf("error running check %v: %w", c.Name, err)
		}
		passed := count == 0
		if !passed {
			report.Passed = false
			g.log.Warn(fmt.Sprintf("check %v failed with count=%v", c.Name, count))
		} else {
			g.log.Info(fmt.Sprintf("check %v passed", c.Name))
		}
		report.Checks = append(report.Checks, CheckResult{
			Name:        c.Name,
			Severity:    c.Severity,
			Description: c.Description,
			Count:       count,
			Passed:      passed,
		})
	}
	// Informational aggregates.
	yearly, err := g.yearlySales(ctx)
	if err != nil {
		return nil, err
	}
	report.YearlySales = yearly
	for _, y := range yearly {
		g.log.Info(fmt.Sprintf("%v %v: %.2f", constants.CheckYearlySales, y.Year, y.Total))
	}
	vip, err := rdbms.SqlQueryScalarFloat(ctx, g.log, g.db, VipSalesSql())
	if err != nil {
		return nil, fmt.Errorf("error running vip sales aggregate: %w", err)
	}
	report.VipSales = vip
	g.log.Info(fmt.Sprintf("%v total: %.2f", constants.CheckVipSales, vip))
	return report, nil
}

// yearTotalHandler collects the yearly aggregate result set.
type yearTotalHandler struct {
	totals []YearTotal
}

func (h *yearTotalHandler) HandleHeader(header []interface{}) error {
	return nil
}

func (h *yearTotalHandler) HandleRow(row []interface{}) error {
	if len(row) != 2 {
		return fmt.Errorf("expected 2 columns in yearly aggregate row; got %v", len(row))
	}
	year, err := toInt64(row[0])
	if err != nil {
		return fmt.Errorf("error reading year column: %v", err)
	}
	total, err := toFloat64(row[1])
	if err != nil {
		return fmt.Errorf("error reading total column: %v", err)
	}
	h.totals = append(h.totals, YearTotal{Year: year, Total: total})
	return nil
}

func (g *Gate) yearlySales(ctx context.Context) ([]YearTotal, error) {
	h := &yearTotalHandler{}
	if err := rdbms.SqlQuery(ctx, g.log, g.db, YearlySalesSql(), h); err != nil {
		return nil, fmt.Errorf("error running yearly sales aggregate: %w", err)
	}
	return h.totals, nil
}

func toInt64(v interface{}) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	case string:
		var n int64
		_, err := fmt.Sscanf(x, "%d", &n)
		return n, err
	case []uint8:
		var n int64
		_, err := fmt.Sscanf(string(x), "%d", &n)
		return n, err
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
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
	case string:
		var n float64
		_, err := fmt.Sscanf(x, "%g", &n)
		return n, err
	case []uint8:
		var n float64
		_, err := fmt.Sscanf(string(x), "%g", &n)
		return n, err
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
