package quality

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name        string   `json:"name"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description,omitempty"`
	Count       int64    `json:"count"`
	Passed      bool     `json:"passed"`
}

// YearTotal is one row of the yearly sales aggregate.
type YearTotal struct {
	Year  int64   `json:"year"`
	Total float64 `json:"total"`
}

// Report is the structured result of a quality gate run.
type Report struct {
	RunDate     string        `json:"runDate"`
	Checks      []CheckResult `json:"checks"`
	YearlySales []YearTotal   `json:"yearlySales,omitempty"`
	VipSales    float64       `json:"vipSales"`
	Parity      *ParityResult `json:"parity,omitempty"`
	Passed      bool          `json:"passed"`
}

// Violations returns the failed hard checks.
func (r *Report) Violations() []CheckResult {
	var v []CheckResult
	for _, c := range r.Checks {
		if c.Severity == SeverityHard && !c.Passed {
			v = append(v, c)
		}
	}
	return v
}

// Render marshals the report as "yaml" or "json".
func (r *Report) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "":
		return yaml.Marshal(r)
	case "json":
		return json.MarshalIndent(r, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported report format %q: expected yaml or json", format)
	}
}

// QualityViolationError is returned when the gate is strict and one or more
// hard checks found offending rows.
type QualityViolationError struct {
	RunDate    string
	Violations []CheckResult
}

func (e QualityViolationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%v=%v", v.Name, v.Count))
	}
	return fmt.Sprintf("QualityViolation: batch %v failed %v hard check(s): %v",
		e.RunDate, len(e.Violations), strings.Join(parts, ", "))
}
