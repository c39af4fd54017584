package quality

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic"
	"github.com/dwops/batchgate/constants"
)

// Policy decides whether a report's check counts gate the batch. Rules are
// JsonLogic expressions evaluated against a flat map of check name to count,
// so operators can tune gating behaviour without a rebuild.
type Policy struct {
	rule string
}

// DefaultPolicyRule requires every hard check count to be zero.
func DefaultPolicyRule() string {
	names := []string{
		constants.CheckNegativeQty,
		constants.CheckNegativeAmount,
		constants.CheckOrphanCustomer,
		constants.CheckOrphanProduct,
		constants.CheckDupCurrentProduct,
	}
	terms := make([]string, len(names))
	for i, n := range names {
		terms[i] = fmt.Sprintf(`{"==":[{"var":%q},0]}`, n)
	}
	return fmt.Sprintf(`{"and":[%v]}`, strings.Join(terms, ","))
}

// NewPolicy validates and wraps a JsonLogic rule. An empty rule means the
// default policy.
func NewPolicy(rule string) (*Policy, error) {
	if rule == "" {
		rule = DefaultPolicyRule()
	}
	if !jsonlogic.IsValid(strings.NewReader(rule)) {
		return nil, fmt.Errorf("invalid gate policy rule: %v", rule)
	}
	return &Policy{rule: rule}, nil
}

// Evaluate applies the rule to the report's check counts and returns true when
// the batch passes.
func (p *Policy) Evaluate(r *Report) (bool, error) {
	counts := make(map[string]int64, len(r.Checks))
	for _, c := range r.Checks {
		counts[c.Name] = c.Count
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return false, fmt.Errorf("error marshalling check counts before applying policy: %v", err)
	}
	var result bytes.Buffer
	if err := jsonlogic.Apply(strings.NewReader(p.rule), bytes.NewReader(data), &result); err != nil {
		return false, fmt.Errorf("error applying gate policy: %v", err)
	}
	return strings.TrimSpace(result.String()) == "true", nil
}
