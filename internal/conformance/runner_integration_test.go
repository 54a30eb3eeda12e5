package conformance_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/fixture"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/probe"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/users-conformance/internal/conformance"
	"github.com/heartmarshall/users-conformance/internal/domain"
	"github.com/heartmarshall/users-conformance/internal/schema"
)

func newPostgresRunner(t *testing.T, desc *schema.Descriptor, policy domain.TypePolicy) *conformance.Runner {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetUsers(t, pool)
	t.Cleanup(func() { testhelper.ResetUsers(t, pool) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return conformance.NewRunner(conformance.Deps{
		Descriptor: desc,
		Reconciler: schema.NewReconciler(policy),
		Reader:     catalog.New(pool, logger),
		Probe:      probe.New(pool, desc, logger),
		Fixture:    fixture.New(pool, desc.Table(), logger),
		Logger:     logger,
	})
}

func TestRunner_ConformingTable(t *testing.T) {
	r := newPostgresRunner(t, schema.UsersDescriptor(), domain.TypePolicyExact)

	res, err := r.Run(context.Background(), conformance.PhaseAll)
	require.NoError(t, err)
	for _, f := range res.Failures() {
		t.Errorf("%s: %v", f.ID, f.Failures)
	}
	require.True(t, res.OK())
	require.Equal(t, 37, res.Total())
}

func TestRunner_DriftedTable(t *testing.T) {
	fields := schema.UsersDescriptor().Fields()

	tests := []struct {
		name       string
		policy     domain.TypePolicy
		wantFailed []string
	}{
		{
			name:   "exact",
			policy: domain.TypePolicyExact,
			wantFailed: []string{
				"schema/presence/city",
				"schema/type/email",
				"schema/type/birthdate",
				"schema/type/city",
				"schema/type/created_at",
				"schema/type/last_access_time",
			},
		},
		{
			name:   "lenient",
			policy: domain.TypePolicyLenient,
			wantFailed: []string{
				"schema/presence/city",
				"schema/type/email",
				"schema/type/birthdate",
				"schema/type/city",
				"schema/type/last_access_time",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := schema.MustNewDescriptor("drifted_users", fields)
			r := newPostgresRunner(t, desc, tt.policy)

			res, err := r.Run(context.Background(), conformance.PhaseSchema)
			require.NoError(t, err)

			var failed []string
			for _, f := range res.Failures() {
				failed = append(failed, f.ID)
			}
			require.ElementsMatch(t, tt.wantFailed, failed)
		})
	}
}

func TestRunner_UnknownTableAborts(t *testing.T) {
	desc := schema.MustNewDescriptor("no_such_table", schema.UsersDescriptor().Fields())
	r := newPostgresRunner(t, desc, domain.TypePolicyExact)

	res, err := r.Run(context.Background(), conformance.PhaseAll)
	require.ErrorIs(t, err, domain.ErrUnknownTable)
	require.NotEmpty(t, res.Aborted)
	require.Equal(t, 1, res.Total())
}
