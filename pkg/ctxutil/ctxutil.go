package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	runIDKey    ctxKey = "run_id"
	scenarioKey ctxKey = "scenario"
)

// WithRunID stores the run ID in the context.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromCtx extracts the run ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func RunIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithScenario stores the current scenario ID in the context.
func WithScenario(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, scenarioKey, id)
}

// ScenarioFromCtx extracts the scenario ID from the context.
// Returns an empty string if absent.
func ScenarioFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(scenarioKey).(string)
	return id
}
