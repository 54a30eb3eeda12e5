package conformance

import (
	"context"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

// runSchema reads the catalog once, then emits one presence and one type
// scenario per expected field.
func (r *Runner) runSchema(ctx context.Context) (Results, error) {
	root := ScenarioID{"schema"}
	table := r.deps.Descriptor.Table()

	var observed domain.ObservedSchema
	results, err := r.runScenarios(ctx, []scenario{{
		id: root.Plus("catalog"),
		body: func(ctx context.Context, _ *scope) error {
			obs, err := r.deps.Reader.ReadSchema(ctx, table)
			if err != nil {
				return err
			}
			observed = obs
			return nil
		},
	}})
	if err != nil || observed == nil {
		return results, err
	}

	recon := r.deps.Reconciler.Reconcile(r.deps.Descriptor.Fields(), observed)

	scenarios := make([]scenario, 0, 2*len(recon))
	for _, res := range recon {
		scenarios = append(scenarios, scenario{
			id:   root.Plus("presence").Plus(res.Field),
			body: presenceCheck(res),
		})
	}
	for _, res := range recon {
		scenarios = append(scenarios, scenario{
			id:   root.Plus("type").Plus(res.Field),
			body: typeCheck(res),
		})
	}

	more, err := r.runScenarios(ctx, scenarios)
	results.merge(more)
	return results, err
}

func presenceCheck(res domain.ReconciliationResult) func(context.Context, *scope) error {
	return func(_ context.Context, s *scope) error {
		if res.Status == domain.StatusMissing {
			s.Failf("column %q not found", res.Field)
		}
		return nil
	}
}

func typeCheck(res domain.ReconciliationResult) func(context.Context, *scope) error {
	return func(_ context.Context, s *scope) error {
		switch res.Status {
		case domain.StatusMissing:
			s.Failf("column %q not found, expected type %q", res.Field, res.Expected)
		case domain.StatusTypeMismatch:
			s.Failf("column %q: expected type %q, observed %q", res.Field, res.Expected, res.Observed)
		}
		return nil
	}
}
