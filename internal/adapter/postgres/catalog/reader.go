// Package catalog reads observed column metadata from information_schema.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/users-conformance/internal/adapter/postgres"
	"github.com/heartmarshall/users-conformance/internal/domain"
)

// defaultTimestampPrecision is what the catalog reports for a bare timestamp.
const defaultTimestampPrecision = 6

// Reader queries information_schema.columns for one table at a time.
type Reader struct {
	q   postgres.Querier
	log *slog.Logger
}

// New creates a catalog reader on the given connection handle.
func New(q postgres.Querier, logger *slog.Logger) *Reader {
	return &Reader{q: q, log: logger}
}

type columnRow struct {
	ColumnName        string `db:"column_name"`
	DataType          string `db:"data_type"`
	CharMaxLength     *int32 `db:"character_maximum_length"`
	DatetimePrecision *int32 `db:"datetime_precision"`
}

// ReadSchema returns the observed column → logical type mapping for table
// in the current schema.
//
// Errors: domain.ErrStoreUnavailable if the catalog cannot be queried,
// domain.ErrUnknownTable if it reports no columns.
func (r *Reader) ReadSchema(ctx context.Context, table string) (domain.ObservedSchema, error) {
	query, args, err := postgres.Builder().
		Select(
			"column_name::text AS column_name",
			"data_type::text AS data_type",
			"character_maximum_length::int AS character_maximum_length",
			"datetime_precision::int AS datetime_precision",
		).
		From("information_schema.columns").
		Where(sq.Eq{"table_name": table}).
		Where("table_schema = current_schema()").
		OrderBy("ordinal_position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}

	var rows []columnRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("read schema %s: %w: %w", table, domain.ErrStoreUnavailable, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("read schema %s: %w", table, domain.ErrUnknownTable)
	}

	observed := make(domain.ObservedSchema, len(rows))
	for _, row := range rows {
		observed[row.ColumnName] = logicalType(row)
	}

	r.log.DebugContext(ctx, "catalog read",
		slog.String("table", table),
		slog.Int("columns", len(observed)),
	)

	return observed, nil
}

// logicalType normalizes the catalog type name and appends a non-default
// modifier: a length for character types, a precision other than 6 for
// time types.
func logicalType(row columnRow) domain.LogicalType {
	tag := domain.NormalizeTypeTag(row.DataType)

	switch {
	case row.CharMaxLength != nil:
		return tag + domain.LogicalType("("+strconv.Itoa(int(*row.CharMaxLength))+")")
	case row.DatetimePrecision != nil && *row.DatetimePrecision != defaultTimestampPrecision && isTimeType(tag):
		return tag + domain.LogicalType("("+strconv.Itoa(int(*row.DatetimePrecision))+")")
	}
	return tag
}

func isTimeType(t domain.LogicalType) bool {
	switch t {
	case domain.TypeTimestamp, domain.TypeTimestampTZ, "time", "timetz":
		return true
	}
	return false
}
