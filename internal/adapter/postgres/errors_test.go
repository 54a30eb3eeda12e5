package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

func TestClassifyError_Nil(t *testing.T) {
	t.Parallel()

	rej, err := ClassifyError(nil, "insert users")
	if rej != nil || err != nil {
		t.Errorf("ClassifyError(nil) = (%v, %v), want (nil, nil)", rej, err)
	}
}

func TestClassifyError_ConstraintCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pg   *pgconn.PgError
		want domain.RejectionKind
	}{
		{
			name: "check_violation",
			pg:   &pgconn.PgError{Code: "23514", ConstraintName: "users_email_check", Message: `new row for relation "users" violates check constraint "users_email_check"`},
			want: domain.RejectionFormat,
		},
		{
			name: "not_null_violation",
			pg:   &pgconn.PgError{Code: "23502", ColumnName: "city", Message: `null value in column "city" violates not-null constraint`},
			want: domain.RejectionNotNull,
		},
		{
			name: "unique_violation",
			pg:   &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "duplicate key value"},
			want: domain.RejectionUniqueness,
		},
		{
			name: "invalid_datetime_format",
			pg:   &pgconn.PgError{Code: "22007", Message: `invalid input syntax for type date: "invalid_date"`},
			want: domain.RejectionTypeConversion,
		},
		{
			name: "datetime_field_overflow",
			pg:   &pgconn.PgError{Code: "22008", Message: `date/time field value out of range: "2024-13-45"`},
			want: domain.RejectionTypeConversion,
		},
		{
			name: "invalid_text_representation",
			pg:   &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type boolean: "maybe"`},
			want: domain.RejectionTypeConversion,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rej, err := ClassifyError(fmt.Errorf("exec: %w", tt.pg), "insert users")
			if err != nil {
				t.Fatalf("unexpected transport error: %v", err)
			}
			if rej == nil {
				t.Fatal("expected rejection, got nil")
			}
			if rej.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", rej.Kind, tt.want)
			}
			if rej.Constraint != tt.pg.ConstraintName || rej.Column != tt.pg.ColumnName {
				t.Errorf("rejection = %+v, want constraint %q column %q", rej, tt.pg.ConstraintName, tt.pg.ColumnName)
			}
			if rej.Detail != tt.pg.Message {
				t.Errorf("Detail = %q, want %q", rej.Detail, tt.pg.Message)
			}
		})
	}
}

func TestClassifyError_IgnoresMessageText(t *testing.T) {
	t.Parallel()

	// Message mentions a check constraint but the code is foreign_key_violation.
	pgErr := &pgconn.PgError{Code: "23503", Message: `violates check constraint "users_email_check"`}

	rej, err := ClassifyError(pgErr, "insert users")
	if rej != nil {
		t.Fatalf("expected no rejection, got %+v", rej)
	}
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestClassifyError_Transport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "deadline", err: context.DeadlineExceeded},
		{name: "canceled", err: fmt.Errorf("query: %w", context.Canceled)},
		{name: "undefined table", err: &pgconn.PgError{Code: "42P01", Message: `relation "users" does not exist`}},
		{name: "plain", err: errors.New("conn closed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rej, err := ClassifyError(tt.err, "insert users")
			if rej != nil {
				t.Fatalf("expected no rejection, got %+v", rej)
			}
			if !errors.Is(err, domain.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("transport error must keep the cause: %v", err)
			}
		})
	}
}

func TestWrapTransport(t *testing.T) {
	t.Parallel()

	if WrapTransport(nil, "truncate users") != nil {
		t.Error("WrapTransport(nil) should be nil")
	}

	cause := errors.New("broken pipe")
	err := WrapTransport(cause, "truncate users")
	if !errors.Is(err, domain.ErrTransport) || !errors.Is(err, cause) {
		t.Errorf("WrapTransport should wrap both ErrTransport and the cause: %v", err)
	}
	if want := "truncate users: transport failure: broken pipe"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent("users"); got != `"users"` {
		t.Errorf("QuoteIdent(users) = %s", got)
	}
	if got := QuoteIdent(`us"ers`); got != `"us""ers"` {
		t.Errorf("QuoteIdent(us\"ers) = %s", got)
	}
}
