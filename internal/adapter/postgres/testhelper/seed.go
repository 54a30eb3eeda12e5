package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// ValidUserInput returns a well-formed insert with unique email and username.
func ValidUserInput() domain.UserInput {
	suffix := uniqueSuffix()
	return domain.UserInput{
		Email:     "user-" + suffix + "@example.com",
		Username:  "user-" + suffix,
		Birthdate: "2024-01-02",
		City:      "La Plata",
		FirstName: "Juan",
		LastName:  "Perez",
		Password:  "hashed_password",
	}
}

// ResetUsers empties the users table and restarts its identity.
func ResetUsers(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE users RESTART IDENTITY`); err != nil {
		t.Fatalf("testhelper: ResetUsers: %v", err)
	}
}

// SeedUser inserts a user with enabled and last_access_time set and returns
// its store-assigned id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	in := ValidUserInput()
	lastAccess := time.Date(2024, 6, 8, 11, 15, 0, 0, time.UTC)

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, username, birthdate, city, first_name, last_name, password, enabled, last_access_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		in.Email, in.Username, in.Birthdate, in.City, in.FirstName, in.LastName, in.Password, true, lastAccess,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return id
}

// CountUsers returns the number of rows in users.
func CountUsers(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("testhelper: CountUsers: %v", err)
	}
	return n
}
