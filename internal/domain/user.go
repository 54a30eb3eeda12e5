package domain

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRecord is a row of the users table as read back from the store.
// ID and CreatedAt are always assigned by the store.
type UserRecord struct {
	ID             int64
	Email          string
	Username       string
	Birthdate      *time.Time
	City           string
	FirstName      string
	LastName       string
	Password       string
	CreatedAt      time.Time
	Enabled        *bool
	LastAccessTime *time.Time
}

// UserInput holds the caller-supplied columns of an insert.
// Birthdate is a date literal so that malformed values reach the store as-is.
type UserInput struct {
	Email          string
	Username       string
	Birthdate      string
	City           string
	FirstName      string
	LastName       string
	Password       string
	Enabled        *bool
	LastAccessTime *time.Time
}

// Columns returns the insert column set. Optional columns (birthdate,
// enabled, last_access_time) are included only when set.
func (in UserInput) Columns() map[string]any {
	cols := map[string]any{
		"email":      in.Email,
		"username":   in.Username,
		"city":       in.City,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"password":   in.Password,
	}
	if in.Birthdate != "" {
		cols["birthdate"] = in.Birthdate
	}
	if in.Enabled != nil {
		cols["enabled"] = *in.Enabled
	}
	if in.LastAccessTime != nil {
		cols["last_access_time"] = *in.LastAccessTime
	}
	return cols
}

// RequiredUserFields lists the columns the store must refuse to leave null.
var RequiredUserFields = []string{"email", "username", "city", "first_name", "last_name", "password"}

// HashPassword returns a bcrypt hash suitable for the password column.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// PasswordMatches reports whether hash was produced from plain.
func PasswordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
