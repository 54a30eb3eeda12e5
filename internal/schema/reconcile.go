package schema

import (
	"github.com/heartmarshall/users-conformance/internal/domain"
)

// Reconciler compares expected fields against an observed schema.
type Reconciler struct {
	policy domain.TypePolicy
}

// NewReconciler creates a Reconciler. An invalid or empty policy falls back to
// exact comparison.
func NewReconciler(policy domain.TypePolicy) *Reconciler {
	if !policy.IsValid() {
		policy = domain.TypePolicyExact
	}
	return &Reconciler{policy: policy}
}

// Policy returns the type comparison policy in effect.
func (r *Reconciler) Policy() domain.TypePolicy { return r.policy }

// Reconcile returns one result per expected field, in the same order.
// Observed columns that are not expected are ignored.
func (r *Reconciler) Reconcile(expected []domain.FieldExpectation, observed domain.ObservedSchema) []domain.ReconciliationResult {
	results := make([]domain.ReconciliationResult, 0, len(expected))
	for _, f := range expected {
		results = append(results, r.reconcileField(f, observed))
	}
	return results
}

func (r *Reconciler) reconcileField(f domain.FieldExpectation, observed domain.ObservedSchema) domain.ReconciliationResult {
	res := domain.ReconciliationResult{Field: f.Name, Expected: f.Type}

	got, ok := observed[f.Name]
	if !ok {
		res.Status = domain.StatusMissing
		return res
	}

	res.Observed = got
	if r.typesEqual(f.Type, got) {
		res.Status = domain.StatusMatched
	} else {
		res.Status = domain.StatusTypeMismatch
	}
	return res
}

func (r *Reconciler) typesEqual(expected, observed domain.LogicalType) bool {
	if r.policy == domain.TypePolicyLenient {
		return expected.Base() == observed.Base()
	}
	return expected == observed
}

// Summary aggregates reconciliation results.
type Summary struct {
	Matched    int
	Missing    int
	Mismatched int
}

// OK reports whether every field matched.
func (s Summary) OK() bool { return s.Missing == 0 && s.Mismatched == 0 }

// Summarize counts results by status.
func Summarize(results []domain.ReconciliationResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case domain.StatusMatched:
			s.Matched++
		case domain.StatusMissing:
			s.Missing++
		case domain.StatusTypeMismatch:
			s.Mismatched++
		}
	}
	return s
}
