// Package probe issues crafted inserts and deletes against the users table
// and classifies what the store did with them.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/users-conformance/internal/adapter/postgres"
	"github.com/heartmarshall/users-conformance/internal/domain"
	"github.com/heartmarshall/users-conformance/internal/schema"
)

// Values substituted by the invalid-input probes.
const (
	InvalidEmail = "user"
	InvalidDate  = "invalid_date"
)

var recordColumns = []string{
	"id", "email", "username", "birthdate", "city", "first_name",
	"last_name", "password", "created_at", "enabled", "last_access_time",
}

// Probe runs constraint probes against one table through a single handle.
// Every method returns a non-nil error only for transport failures; constraint
// rejections are reported inside domain.ProbeOutcome.
type Probe struct {
	q     postgres.Querier
	table string
	desc  *schema.Descriptor
	log   *slog.Logger
}

// New creates a Probe. desc restricts which columns may be used as delete keys.
func New(q postgres.Querier, desc *schema.Descriptor, logger *slog.Logger) *Probe {
	return &Probe{
		q:     q,
		table: desc.Table(),
		desc:  desc,
		log:   logger,
	}
}

type userRow struct {
	ID             int64      `db:"id"`
	Email          string     `db:"email"`
	Username       string     `db:"username"`
	Birthdate      *time.Time `db:"birthdate"`
	City           string     `db:"city"`
	FirstName      string     `db:"first_name"`
	LastName       string     `db:"last_name"`
	Password       string     `db:"password"`
	CreatedAt      time.Time  `db:"created_at"`
	Enabled        *bool      `db:"enabled"`
	LastAccessTime *time.Time `db:"last_access_time"`
}

func toDomainUser(r userRow) domain.UserRecord {
	return domain.UserRecord{
		ID:             r.ID,
		Email:          r.Email,
		Username:       r.Username,
		Birthdate:      r.Birthdate,
		City:           r.City,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Password:       r.Password,
		CreatedAt:      r.CreatedAt,
		Enabled:        r.Enabled,
		LastAccessTime: r.LastAccessTime,
	}
}

// ---------------------------------------------------------------------------
// Inserts
// ---------------------------------------------------------------------------

// InsertValid inserts every supplied column and returns the stored record,
// including the store-assigned id and created_at.
func (p *Probe) InsertValid(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	return p.insert(ctx, "insert valid", in.Columns())
}

// InsertWithInvalidEmail inserts in with an email that fails the format check.
func (p *Probe) InsertWithInvalidEmail(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	in.Email = InvalidEmail
	return p.insert(ctx, "insert invalid email", in.Columns())
}

// InsertWithInvalidDate inserts in with a birthdate literal that is not a date.
func (p *Probe) InsertWithInvalidDate(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	in.Birthdate = InvalidDate
	return p.insert(ctx, "insert invalid date", in.Columns())
}

// InsertMissingRequiredField inserts in without the named column.
// Naming a column that is not part of the insert is a caller error.
func (p *Probe) InsertMissingRequiredField(ctx context.Context, in domain.UserInput, field string) (domain.ProbeOutcome, error) {
	cols := in.Columns()
	if _, ok := cols[field]; !ok {
		return domain.ProbeOutcome{}, domain.NewValidationError(field, "not an insertable column")
	}
	delete(cols, field)
	return p.insert(ctx, "insert missing "+field, cols)
}

// InsertDuplicate inserts in twice and returns the outcome of the second
// insert. If the first insert is rejected, that outcome is returned instead.
func (p *Probe) InsertDuplicate(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	first, err := p.insert(ctx, "insert duplicate seed", in.Columns())
	if err != nil || !first.Accepted {
		return first, err
	}
	return p.insert(ctx, "insert duplicate", in.Columns())
}

func (p *Probe) insert(ctx context.Context, op string, cols map[string]any) (domain.ProbeOutcome, error) {
	query, args, err := postgres.Builder().
		Insert(postgres.QuoteIdent(p.table)).
		SetMap(cols).
		Suffix("RETURNING " + strings.Join(recordColumns, ", ")).
		ToSql()
	if err != nil {
		return domain.ProbeOutcome{}, fmt.Errorf("%s: build query: %w", op, err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, p.q, &row, query, args...); err != nil {
		rej, terr := postgres.ClassifyError(err, op)
		if terr != nil {
			p.log.ErrorContext(ctx, "probe transport failure", slog.String("op", op), slog.String("error", terr.Error()))
			return domain.ProbeOutcome{}, terr
		}
		out := domain.Rejected(*rej)
		p.logOutcome(ctx, op, out)
		return out, nil
	}

	out := domain.Accepted(toDomainUser(row))
	p.logOutcome(ctx, op, out)
	return out, nil
}

func (p *Probe) logOutcome(ctx context.Context, op string, out domain.ProbeOutcome) {
	attrs := []any{slog.String("op", op), slog.Bool("accepted", out.Accepted)}
	if out.Rejection != nil {
		attrs = append(attrs,
			slog.String("kind", out.Rejection.Kind.String()),
			slog.String("constraint", out.Rejection.Constraint),
			slog.String("column", out.Rejection.Column),
		)
	}
	p.log.DebugContext(ctx, "probe outcome", attrs...)
}

// ---------------------------------------------------------------------------
// Deletes and reads
// ---------------------------------------------------------------------------

// DeleteByID deletes the row with the given id and returns the affected count.
func (p *Probe) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return p.DeleteByKey(ctx, "id", id)
}

// DeleteByKey deletes rows where column equals value. A key that matches
// nothing is a successful no-op returning 0. column must be declared in the
// descriptor.
func (p *Probe) DeleteByKey(ctx context.Context, column string, value any) (int64, error) {
	if !p.desc.Has(column) {
		return 0, domain.NewValidationError(column, "not a declared column")
	}

	query, args, err := postgres.Builder().
		Delete(postgres.QuoteIdent(p.table)).
		Where(sq.Eq{postgres.QuoteIdent(column): value}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("delete by %s: build query: %w", column, err)
	}

	tag, err := p.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.WrapTransport(err, "delete by "+column)
	}

	p.log.DebugContext(ctx, "probe delete",
		slog.String("column", column),
		slog.Int64("affected", tag.RowsAffected()),
	)
	return tag.RowsAffected(), nil
}

// Exists reports whether a row with the given id is present.
func (p *Probe) Exists(ctx context.Context, id int64) (bool, error) {
	query, args, err := postgres.Builder().
		Select("1").
		From(postgres.QuoteIdent(p.table)).
		Where(sq.Eq{"id": id}).
		Prefix("SELECT EXISTS(").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("exists: build query: %w", err)
	}

	var exists bool
	if err := p.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, postgres.WrapTransport(err, "exists")
	}
	return exists, nil
}

// List returns every row ordered by id.
func (p *Probe) List(ctx context.Context) ([]domain.UserRecord, error) {
	query, args, err := postgres.Builder().
		Select(recordColumns...).
		From(postgres.QuoteIdent(p.table)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list: build query: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, p.q, &rows, query, args...); err != nil {
		return nil, postgres.WrapTransport(err, "list")
	}

	records := make([]domain.UserRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, toDomainUser(r))
	}
	return records, nil
}
