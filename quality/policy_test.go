package quality

import "testing"

func reportWithCounts(counts map[string]int64) *Report {
	r := &Report{RunDate: "20260825"}
	for _, c := range HardChecks() {
		r.Checks = append(r.Checks, CheckResult{Name: c.Name, Severity: c.Severity, Count: counts[c.Name], Passed: counts[c.Name] == 0})
	}
	return r
}

func TestDefaultPolicy(t *testing.T) {
	p, err := NewPolicy("")
	if err != nil {
		t.Fatal("unexpected error building default policy: ", err)
	}
	// Test 1 - all zero counts pass.
	ok, err := p.Evaluate(reportWithCounts(map[string]int64{}))
	if err != nil || !ok {
		t.Fatalf("expected pass; got %v, %v", ok, err)
	}
	// Test 2 - any nonzero hard count fails.
	ok, err = p.Evaluate(reportWithCounts(map[string]int64{"orphan_prod": 2}))
	if err != nil || ok {
		t.Fatalf("expected fail; got %v, %v", ok, err)
	}
}

func TestCustomPolicy(t *testing.T) {
	// Allow up to 5 orphan customers, everything else must be clean.
	rule := `{"and":[{"<=":[{"var":"orphan_cust"},5]},{"==":[{"var":"neg_qty"},0]}]}`
	p, err := NewPolicy(rule)
	if err != nil {
		t.Fatal("unexpected error: ", err)
	}
	ok, err := p.Evaluate(reportWithCounts(map[string]int64{"orphan_cust": 3}))
	if err != nil || !ok {
		t.Fatalf("expected custom rule to tolerate 3 orphans; got %v, %v", ok, err)
	}
	ok, err = p.Evaluate(reportWithCounts(map[string]int64{"orphan_cust": 6}))
	if err != nil || ok {
		t.Fatalf("expected custom rule to reject 6 orphans; got %v, %v", ok, err)
	}
}

func TestInvalidPolicy(t *testing.T) {
	if _, err := NewPolicy(`{"bogus`); err == nil {
		t.Fatal("expected error for malformed rule; got nil")
	}
}
