// Package fixture resets table state between scenarios.
package fixture

import (
	"context"
	"log/slog"

	postgres "github.com/heartmarshall/users-conformance/internal/adapter/postgres"
)

// Controller truncates a single table.
type Controller struct {
	q     postgres.Querier
	table string
	log   *slog.Logger
}

// New creates a fixture controller for table.
func New(q postgres.Querier, table string, logger *slog.Logger) *Controller {
	return &Controller{q: q, table: table, log: logger}
}

// ResetAll removes every row. Identity sequences keep their position.
func (c *Controller) ResetAll(ctx context.Context) error {
	return c.truncate(ctx, "TRUNCATE "+postgres.QuoteIdent(c.table), "reset all")
}

// ResetAllAndRestartIdentity removes every row and restarts owned sequences,
// so the next insert gets the identity a freshly created table would assign.
func (c *Controller) ResetAllAndRestartIdentity(ctx context.Context) error {
	return c.truncate(ctx, "TRUNCATE "+postgres.QuoteIdent(c.table)+" RESTART IDENTITY", "reset all and restart identity")
}

func (c *Controller) truncate(ctx context.Context, stmt, op string) error {
	if _, err := c.q.Exec(ctx, stmt); err != nil {
		return postgres.WrapTransport(err, op)
	}
	c.log.DebugContext(ctx, "fixture reset", slog.String("table", c.table), slog.String("op", op))
	return nil
}

// Count returns the number of rows in the table.
func (c *Controller) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := c.q.QueryRow(ctx, "SELECT count(*) FROM "+postgres.QuoteIdent(c.table)).Scan(&n); err != nil {
		return 0, postgres.WrapTransport(err, "count")
	}
	return n, nil
}
