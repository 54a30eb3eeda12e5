package conformance

import (
	"context"
	"fmt"
	"time"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

// seedLastAccess is the last_access_time stored by seeded rows.
var seedLastAccess = time.Date(2024, 6, 8, 11, 15, 0, 0, time.UTC)

// runConstraints executes the insert, delete and fixture scenarios.
func (r *Runner) runConstraints(ctx context.Context) (Results, error) {
	in, err := r.deps.Sample()
	if err != nil {
		return Results{}, fmt.Errorf("build sample record: %w", err)
	}

	insert := ScenarioID{"constraints", "insert"}
	del := ScenarioID{"constraints", "delete"}
	fix := ScenarioID{"fixture"}

	scenarios := []scenario{
		{id: insert.Plus("valid"), reset: resetAll, body: r.insertValid(in)},
		{id: insert.Plus("invalid-email"), reset: resetAll, body: r.expectRejected(domain.RejectionFormat, func(ctx context.Context) (domain.ProbeOutcome, error) {
			return r.deps.Probe.InsertWithInvalidEmail(ctx, in)
		})},
		{id: insert.Plus("invalid-birthdate"), reset: resetAll, body: r.expectRejected(domain.RejectionTypeConversion, func(ctx context.Context) (domain.ProbeOutcome, error) {
			return r.deps.Probe.InsertWithInvalidDate(ctx, in)
		})},
	}
	for _, field := range domain.RequiredUserFields {
		scenarios = append(scenarios, scenario{
			id:    insert.Plus("missing-" + field),
			reset: resetAll,
			body:  r.missingField(in, field),
		})
	}
	scenarios = append(scenarios,
		scenario{id: insert.Plus("duplicate"), reset: resetAll, body: r.expectRejected(domain.RejectionUniqueness, func(ctx context.Context) (domain.ProbeOutcome, error) {
			return r.deps.Probe.InsertDuplicate(ctx, in)
		})},
		scenario{id: del.Plus("by-id"), reset: resetRestartIdentity, cleanup: resetRestartIdentity, body: r.deleteByID(in)},
		scenario{id: del.Plus("non-existent"), reset: resetRestartIdentity, cleanup: resetRestartIdentity, body: r.deleteNonExistent(in)},
		scenario{id: fix.Plus("reset-all"), reset: resetAll, body: r.resetAllEmpties(in)},
		scenario{id: fix.Plus("restart-identity"), reset: resetRestartIdentity, cleanup: resetRestartIdentity, body: r.restartIdentity(in)},
	)

	return r.runScenarios(ctx, scenarios)
}

func (r *Runner) insertValid(in domain.UserInput) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		year := r.deps.Now().Year()

		out, err := r.deps.Probe.InsertValid(ctx, in)
		if err != nil {
			return err
		}
		if !out.Accepted || out.Record == nil {
			s.Failf("expected ACCEPTED, got %s", out)
			return nil
		}
		if got := out.Record.CreatedAt.Year(); got != year {
			s.Failf("created_at year = %d, want %d", got, year)
		}

		rows, err := r.deps.Probe.List(ctx)
		if err != nil {
			return err
		}
		if len(rows) != 1 {
			s.Failf("expected exactly 1 row after insert, got %d", len(rows))
			return nil
		}
		if rows[0].Email != in.Email {
			s.Failf("stored email = %q, want %q", rows[0].Email, in.Email)
		}
		if rows[0].Password != in.Password {
			s.Failf("stored password differs from the inserted value")
		}
		return nil
	}
}

func (r *Runner) expectRejected(kind domain.RejectionKind, probe func(context.Context) (domain.ProbeOutcome, error)) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		out, err := probe(ctx)
		if err != nil {
			return err
		}
		expectRejection(s, out, kind)
		return nil
	}
}

func (r *Runner) missingField(in domain.UserInput, field string) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		out, err := r.deps.Probe.InsertMissingRequiredField(ctx, in, field)
		if err != nil {
			return err
		}
		if !expectRejection(s, out, domain.RejectionNotNull) {
			return nil
		}
		if out.Rejection.Column != field {
			s.Failf("rejection names column %q, want %q", out.Rejection.Column, field)
		}
		return nil
	}
}

// expectRejection fails the scope unless out is a rejection of kind.
func expectRejection(s *scope, out domain.ProbeOutcome, kind domain.RejectionKind) bool {
	if out.Accepted {
		s.Failf("expected %s, but the store accepted the row", kind)
		return false
	}
	if !out.RejectedAs(kind) {
		s.Failf("expected %s, got %s", kind, out)
		return false
	}
	return true
}

// seed inserts a row with the optional columns populated and returns its id.
func (r *Runner) seed(ctx context.Context, in domain.UserInput) (int64, error) {
	enabled := true
	lastAccess := seedLastAccess
	in.Enabled = &enabled
	in.LastAccessTime = &lastAccess

	out, err := r.deps.Probe.InsertValid(ctx, in)
	if err != nil {
		return 0, err
	}
	if !out.Accepted || out.Record == nil {
		return 0, fmt.Errorf("%w: seed insert %s", errSetup, out)
	}
	return out.Record.ID, nil
}

func (r *Runner) deleteByID(in domain.UserInput) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		id, err := r.seed(ctx, in)
		if err != nil {
			return err
		}

		exists, err := r.deps.Probe.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			s.Failf("seeded row %d not found before delete", id)
		}

		n, err := r.deps.Probe.DeleteByID(ctx, id)
		if err != nil {
			return err
		}
		if n != 1 {
			s.Failf("delete by id affected %d rows, want 1", n)
		}

		exists, err = r.deps.Probe.Exists(ctx, id)
		if err != nil {
			return err
		}
		if exists {
			s.Failf("row %d still present after delete", id)
		}
		return nil
	}
}

func (r *Runner) deleteNonExistent(in domain.UserInput) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		id, err := r.seed(ctx, in)
		if err != nil {
			return err
		}

		n, err := r.deps.Probe.DeleteByKey(ctx, "id", id+100)
		if err != nil {
			return err
		}
		if n != 0 {
			s.Failf("delete of non-existent id %d affected %d rows, want 0", id+100, n)
		}
		return nil
	}
}

func (r *Runner) resetAllEmpties(in domain.UserInput) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		if _, err := r.seed(ctx, in); err != nil {
			return err
		}
		if err := r.deps.Fixture.ResetAll(ctx); err != nil {
			return err
		}

		rows, err := r.deps.Probe.List(ctx)
		if err != nil {
			return err
		}
		if len(rows) != 0 {
			s.Failf("expected empty table after reset, got %d rows", len(rows))
		}
		return nil
	}
}

func (r *Runner) restartIdentity(in domain.UserInput) func(context.Context, *scope) error {
	return func(ctx context.Context, s *scope) error {
		first, err := r.seed(ctx, in)
		if err != nil {
			return err
		}

		second := in
		second.Email = "second-" + in.Email
		second.Username = "second-" + in.Username
		if _, err := r.seed(ctx, second); err != nil {
			return err
		}

		if err := r.deps.Fixture.ResetAllAndRestartIdentity(ctx); err != nil {
			return err
		}

		again, err := r.seed(ctx, in)
		if err != nil {
			return err
		}
		if again != first {
			s.Failf("identity after restart = %d, want %d", again, first)
		}
		return nil
	}
}
