// Package quality runs the post-load data-quality gate: a fixed battery of
// read-only aggregate queries against the warehouse fact and dimension tables.
package quality

import (
	"fmt"

	"github.com/dwops/batchgate/constants"
)

// Severity classifies a check. Hard checks gate the batch; informational
// checks are reported alongside but never fail it.
type Severity string

const (
	SeverityHard Severity = "hard"
	SeverityInfo Severity = "info"
)

// Check is one aggregate query whose scalar count is compared against zero.
type Check struct {
	Name        string
	Severity    Severity
	Description string
	Sql         string
}

// HardChecks returns the gating battery. Each query returns a single count of
// offending rows; zero for every check is the pass condition.
func HardChecks() []Check {
	return []Check{
		{
			Name:        constants.CheckNegativeQty,
			Severity:    SeverityHard,
			Description: "fact rows with a negative quantity",
			Sql:         fmt.Sprintf("select count(*) from %v where quantity < 0", constants.TableFactSales),
		},
		{
			Name:        constants.CheckNegativeAmount,
			Severity:    SeverityHard,
			Description: "fact rows with a negative sales amount",
			Sql:         fmt.Sprintf("select count(*) from %v where sales_amount < 0", constants.TableFactSales),
		},
		{
			Name:        constants.CheckOrphanCustomer,
			Severity:    SeverityHard,
			Description: "fact rows whose customer_id has no dimension row",
			Sql: fmt.Sprintf(
				"select count(*) from %v f left join %v c on f.customer_id = c.customer_id where c.customer_id is null",
				constants.TableFactSales, constants.TableDimCustomer),
		},
		{
			Name:        constants.CheckOrphanProduct,
			Severity:    SeverityHard,
			Description: "fact rows whose product_id has no dimension row",
			Sql: fmt.Sprintf(
				"select count(*) from %v f left join %v p on f.product_id = p.product_id where p.product_id is null",
				constants.TableFactSales, constants.TableDimProductScd2),
		},
		{
			Name:        constants.CheckDupCurrentProduct,
			Severity:    SeverityHard,
			Description: "products with more than one current SCD2 row",
			Sql: fmt.Sprintf(
				"select count(*) from (select product_id from %v where is_current = 1 group by product_id having count(*) > 1) d",
				constants.TableDimProductScd2),
		},
	}
}

// YearlySalesSql aggregates sales by order year. Informational only.
func YearlySalesSql() string {
	return fmt.Sprintf("select order_year, sum(sales_amount) from %v group by order_year order by order_year", constants.TableFactSales)
}

// VipSalesSql totals sales attributed to VIP customers. Informational only.
func VipSalesSql() string {
	return fmt.Sprintf(
		"select sum(f.sales_amount) from %v f join %v c on f.customer_id = c.customer_id where c.is_vip = 1",
		constants.TableFactSales, constants.TableDimCustomer)
}
