package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

// SQLSTATE codes the harness recognizes as constraint rejections.
const (
	codeCheckViolation   = "23514"
	codeNotNullViolation = "23502"
	codeUniqueViolation  = "23505"
	codeInvalidDatetime  = "22007"
	codeDatetimeOverflow = "22008"
	codeInvalidTextRepr  = "22P02"
)

// ClassifyError converts a store error into a constraint rejection.
// It returns (rejection, nil) for recognized constraint failures and
// (nil, err) wrapping domain.ErrTransport for everything else, including
// context cancellation, lost connections and unrecognized SQLSTATEs.
// Matching uses SQLSTATE codes only; the message becomes the opaque Detail.
func ClassifyError(err error, op string) (*domain.Rejection, error) {
	if err == nil {
		return nil, nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, WrapTransport(err, op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := rejectionKind(pgErr.Code); ok {
			return &domain.Rejection{
				Kind:       kind,
				Constraint: pgErr.ConstraintName,
				Column:     pgErr.ColumnName,
				Detail:     pgErr.Message,
			}, nil
		}
	}

	return nil, WrapTransport(err, op)
}

func rejectionKind(code string) (domain.RejectionKind, bool) {
	switch code {
	case codeCheckViolation:
		return domain.RejectionFormat, true
	case codeNotNullViolation:
		return domain.RejectionNotNull, true
	case codeUniqueViolation:
		return domain.RejectionUniqueness, true
	case codeInvalidDatetime, codeDatetimeOverflow, codeInvalidTextRepr:
		return domain.RejectionTypeConversion, true
	}
	return "", false
}

// WrapTransport wraps a non-constraint store error as a transport failure.
func WrapTransport(err error, op string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
}
