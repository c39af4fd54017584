package quality

import (
	"strings"
	"testing"
	"time"

	"github.com/dwops/batchgate/constants"
	"github.com/dwops/batchgate/logger"
	"github.com/dwops/batchgate/rdbms/shared"
	"golang.org/x/net/context"
)

var log = logger.NewLogger("quality-test", "error", false)

// newMockWarehouse returns a mock connection with every check answering zero
// and canned informational aggregates.
func newMockWarehouse(t *testing.T) *shared.MockConnection {
	t.Helper()
	db, _ := shared.NewMockConnection(log)
	for _, c := range HardChecks() {
		db.AddResult(c.Sql, []string{"count"}, [][]interface{}{{int64(0)}})
	}
	db.AddResult(YearlySalesSql(), []string{"order_year", "total"}, [][]interface{}{
		{int64(2025), 1250.50},
		{int64(2026), 980.25},
	})
	db.AddResult(VipSalesSql(), []string{"total"}, [][]interface{}{{430.75}})
	return db
}

func findCheck(t *testing.T, r *Report, name string) CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatal("check not found in report: ", name)
	return CheckResult{}
}

func TestGateAllChecksPass(t *testing.T) {
	db := newMockWarehouse(t)
	report, err := NewGate(log, db).Run(context.Background(), "20260825")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if !report.Passed {
		t.Fatalf("expected passing report; got %+v", report)
	}
	if len(report.Checks) != 5 {
		t.Fatal("expected 5 hard checks; got ", len(report.Checks))
	}
	if len(report.Violations()) != 0 {
		t.Fatal("expected no violations; got ", report.Violations())
	}
	if len(report.YearlySales) != 2 || report.YearlySales[0].Year != 2025 {
		t.Fatalf("unexpected yearly aggregate: %+v", report.YearlySales)
	}
	if report.VipSales != 430.75 {
		t.Fatal("unexpected vip sales total: ", report.VipSales)
	}
}

func TestGateOrphanCustomerDetection(t *testing.T) {
	db := newMockWarehouse(t)
	for _, c := range HardChecks() {
		if c.Name == "orphan_cust" {
			db.AddResult(c.Sql, []string{"count"}, [][]interface{}{{int64(1)}})
		}
	}
	report, err := NewGate(log, db).Run(context.Background(), "20260825")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if report.Passed {
		t.Fatal("expected failing report")
	}
	if c := findCheck(t, report, "orphan_cust"); c.Count != 1 || c.Passed {
		t.Fatalf("expected orphan_cust count 1, failed; got %+v", c)
	}
	// No other check's count changes.
	for _, name := range []string{"neg_qty", "neg_amt", "orphan_prod", "dup_current_product"} {
		if c := findCheck(t, report, name); c.Count != 0 || !c.Passed {
			t.Fatalf("expected %v untouched; got %+v", name, c)
		}
	}
}

func TestGateNegativeQtyDetection(t *testing.T) {
	db := newMockWarehouse(t)
	for _, c := range HardChecks() {
		if c.Name == "neg_qty" {
			db.AddResult(c.Sql, []string{"count"}, [][]interface{}{{int64(1)}})
		}
	}
	report, err := NewGate(log, db).Run(context.Background(), "20260825")
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if c := findCheck(t, report, "neg_qty"); c.Count != 1 || c.Passed {
		t.Fatalf("expected neg_qty count 1, failed; got %+v", c)
	}
	if c := findCheck(t, report, "neg_amt"); c.Count != 0 || !c.Passed {
		t.Fatalf("neg_amt must be independent of neg_qty; got %+v", c)
	}
}

func TestQualityViolationError(t *testing.T) {
	err := QualityViolationError{
		RunDate: "20260825",
		Violations: []CheckResult{
			{Name: "neg_qty", Count: 3},
			{Name: "orphan_cust", Count: 1},
		},
	}
	msg := err.Error()
	for _, want := range []string{"QualityViolation", "20260825", "neg_qty=3", "orphan_cust=1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error text %q", want, msg)
		}
	}
}

func TestReportRender(t *testing.T) {
	r := &Report{RunDate: "20260825", Passed: true, Checks: []CheckResult{{Name: "neg_qty", Severity: SeverityHard, Passed: true}}}
	b, err := r.Render("yaml")
	if err != nil || !strings.Contains(string(b), "runDate: \"20260825\"") {
		t.Fatalf("unexpected yaml render: %v %q", err, b)
	}
	b, err = r.Render("json")
	if err != nil || !strings.Contains(string(b), `"runDate": "20260825"`) {
		t.Fatalf("unexpected json render: %v %q", err, b)
	}
	if _, err = r.Render("xml"); err == nil {
		t.Fatal("expected error for unsupported format; got nil")
	}
}

func TestParityCheck(t *testing.T) {
	db, _ := shared.NewMockConnection(log)
	cutoff := time.Now().AddDate(0, 0, -365)
	db.AddResult(parityMarginSql(cutoff), []string{"total"}, [][]interface{}{{1000.0}})
	// Test 1 - within tolerance.
	res, err := ParityCheck(context.Background(), log, db, 999.0, 0)
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if !res.Passed || res.WarehouseValue != 1000.0 || res.Tolerance != DefaultParityTolerance {
		t.Fatalf("expected pass within default tolerance; got %+v", res)
	}
	if res.Name != constants.CheckParity {
		t.Fatal("expected parity result to carry the check name; got ", res.Name)
	}
	// Test 2 - outside tolerance.
	res, err = ParityCheck(context.Background(), log, db, 900.0, 0.01)
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	if res.Passed {
		t.Fatalf("expected parity failure; got %+v", res)
	}
}
