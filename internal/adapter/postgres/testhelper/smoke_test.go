package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)
	ResetUsers(t, pool)

	id := SeedUser(t, pool)

	var email string
	err := pool.QueryRow(
		context.Background(),
		`SELECT email FROM users WHERE id = $1`,
		id,
	).Scan(&email)
	if err != nil {
		t.Fatalf("expected user in DB, got error: %v", err)
	}

	if n := CountUsers(t, pool); n != 1 {
		t.Fatalf("expected 1 user, got %d", n)
	}
}
