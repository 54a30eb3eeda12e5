package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/users-conformance/internal/adapter/postgres"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/fixture"
	"github.com/heartmarshall/users-conformance/internal/adapter/postgres/probe"
	"github.com/heartmarshall/users-conformance/internal/config"
	"github.com/heartmarshall/users-conformance/internal/conformance"
	"github.com/heartmarshall/users-conformance/internal/schema"
	"github.com/heartmarshall/users-conformance/pkg/ctxutil"
)

// LoadDescriptor returns the expected schema for a run: the contract file when
// one is configured, the built-in users contract otherwise. The configured
// table always names the table under test.
func LoadDescriptor(cfg config.ConformanceConfig) (*schema.Descriptor, error) {
	desc := schema.UsersDescriptor()
	if cfg.ContractPath != "" {
		var err error
		desc, err = schema.LoadContract(cfg.ContractPath)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Table != "" && cfg.Table != desc.Table() {
		return schema.NewDescriptor(cfg.Table, desc.Fields())
	}
	return desc, nil
}

// Run connects to the store, wires every component onto the one handle and
// executes the requested phases. The handle is released before Run returns.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, reporter conformance.Reporter, phase conformance.Phase) (conformance.Results, error) {
	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(ctx, uuid.New()), cfg.Conformance.Timeout)
	defer cancel()

	logger.InfoContext(ctx, "starting conformance harness",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	desc, err := LoadDescriptor(cfg.Conformance)
	if err != nil {
		return conformance.Results{}, fmt.Errorf("load contract: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return conformance.Results{}, err
	}
	defer pool.Close()

	runner := conformance.NewRunner(conformance.Deps{
		Descriptor: desc,
		Reconciler: schema.NewReconciler(cfg.Conformance.Policy()),
		Reader:     catalog.New(pool, logger),
		Probe:      probe.New(pool, desc, logger),
		Fixture:    fixture.New(pool, desc.Table(), logger),
		Reporter:   reporter,
		Logger:     logger,
	})

	return runner.Run(ctx, phase)
}

// Reset empties the table under test and returns how many rows it removed.
// With restartIdentity the identity sequence starts over as well.
func Reset(ctx context.Context, cfg *config.Config, logger *slog.Logger, restartIdentity bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctxutil.WithRunID(ctx, uuid.New()), cfg.Conformance.Timeout)
	defer cancel()

	desc, err := LoadDescriptor(cfg.Conformance)
	if err != nil {
		return 0, fmt.Errorf("load contract: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return 0, err
	}
	defer pool.Close()

	ctrl := fixture.New(pool, desc.Table(), logger)

	removed, err := ctrl.Count(ctx)
	if err != nil {
		return 0, err
	}

	if restartIdentity {
		err = ctrl.ResetAllAndRestartIdentity(ctx)
	} else {
		err = ctrl.ResetAll(ctx)
	}
	if err != nil {
		return 0, err
	}

	logger.InfoContext(ctx, "table reset completed",
		slog.String("table", desc.Table()),
		slog.Int64("removed", removed),
		slog.Bool("restart_identity", restartIdentity),
	)
	return removed, nil
}
