package quality

import (
	"fmt"
	"time"

	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms"
	"github.com/dwops/batchgate/rdbms/shared"
	"golang.org/x/net/context"
)

// DefaultParityTolerance is the allowed relative difference between the legacy
// cube KPI and the warehouse value.
const DefaultParityTolerance = 0.01

// ParityResult compares the legacy cube's trailing-365-day margin KPI against
// the freshly loaded warehouse.
type ParityResult struct {
	Name           string  `json:"name"`
	CubeValue      float64 `json:"cubeValue"`
	WarehouseValue float64 `json:"warehouseValue"`
	Diff           float64 `json:"diff"`
	Tolerance      float64 `json:"tolerance"`
	Passed         bool    `json:"passed"`
}

func parityMarginSql(cutoff time.Time) string {
	return fmt.Sprintf("select sum(gross_margin) from %v where order_date >= '%v'",
		constants.TableFactSales, cutoff.Format("2006-01-02"))
}

// ParityCheck computes the warehouse's trailing-365-day gross margin and
// compares it with cubeValue. tolerance <= 0 selects the default.
func ParityCheck(ctx context.Context, log logger.Logger, db shared.Connector, cubeValue float64, tolerance float64) (*ParityResult, error) {
	if tolerance <= 0 {
		tolerance = DefaultParityTolerance
	}
	cutoff := time.Now().AddDate(0, 0, -365)
	kpi, err := rdbms.SqlQueryScalarFloat(ctx, log, db, parityMarginSql(cutoff))
	if err != nil {
		return nil, fmt.Errorf("error computing warehouse margin KPI: %w", err)
	}
	diff := kpi - cubeValue
	if diff < 0 {
		diff = -diff
	}
	denom := kpi
	if denom < 1.0 { // avoid division blow-up on tiny KPIs.
		denom = 1.0
	}
	res := &ParityResult{
		Name:           constants.CheckParity,
		CubeValue:      cubeValue,
		WarehouseValue: kpi,
		Diff:           diff,
		Tolerance:      tolerance,
		Passed:         diff/denom < tolerance,
	}
	log.Info(fmt.Sprintf("check %v marginTrailing365: cube=%.2f vs warehouse=%.2f diff=%.2f", constants.CheckParity, cubeValue, kpi, diff))
	return res, nil
}
