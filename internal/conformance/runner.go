// Package conformance runs schema and constraint scenarios against a live
// table and collects verdicts.
package conformance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/users-conformance/internal/domain"
	"github.com/heartmarshall/users-conformance/internal/schema"
	"github.com/heartmarshall/users-conformance/pkg/ctxutil"
)

// SchemaReader reads the observed schema of a table.
type SchemaReader interface {
	ReadSchema(ctx context.Context, table string) (domain.ObservedSchema, error)
}

// Prober issues constraint probes.
type Prober interface {
	InsertValid(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error)
	InsertWithInvalidEmail(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error)
	InsertWithInvalidDate(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error)
	InsertMissingRequiredField(ctx context.Context, in domain.UserInput, field string) (domain.ProbeOutcome, error)
	InsertDuplicate(ctx context.Context, in domain.UserInput) (domain.ProbeOutcome, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteByKey(ctx context.Context, column string, value any) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.UserRecord, error)
}

// Fixture resets table state.
type Fixture interface {
	ResetAll(ctx context.Context) error
	ResetAllAndRestartIdentity(ctx context.Context) error
}

// Deps are the collaborators of a Runner. All of them share the run's single
// store handle.
type Deps struct {
	Descriptor *schema.Descriptor
	Reconciler *schema.Reconciler
	Reader     SchemaReader
	Probe      Prober
	Fixture    Fixture
	Reporter   Reporter
	Logger     *slog.Logger
	// Sample builds the well-formed record used by the constraint scenarios.
	Sample func() (domain.UserInput, error)
	// Now is the clock used for the created_at check.
	Now func() time.Time
}

// Runner executes scenarios strictly in sequence.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner. Reporter, Logger, Sample and Now get defaults
// when nil.
func NewRunner(deps Deps) *Runner {
	if deps.Reporter == nil {
		deps.Reporter = NullReporter{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Sample == nil {
		deps.Sample = SampleUser
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Reconciler == nil {
		deps.Reconciler = schema.NewReconciler(domain.TypePolicyExact)
	}
	return &Runner{deps: deps}
}

// SamplePassword is the plaintext behind SampleUser's password hash.
const SamplePassword = "hashed_password"

// SampleUser returns the reference record used by the constraint scenarios.
func SampleUser() (domain.UserInput, error) {
	hash, err := domain.HashPassword(SamplePassword)
	if err != nil {
		return domain.UserInput{}, err
	}
	return domain.UserInput{
		Email:     "user@example.com",
		Username:  "user",
		Birthdate: "2024-01-02",
		City:      "La Plata",
		FirstName: "Juan",
		LastName:  "Perez",
		Password:  hash,
	}, nil
}

// Phase selects which scenario groups a run executes.
type Phase int

const (
	PhaseSchema Phase = 1 << iota
	PhaseConstraints
	PhaseAll = PhaseSchema | PhaseConstraints
)

// Run executes the selected phases and reports every scenario. A run id
// already in ctx is kept. The returned
// error is non-nil when a transport failure aborted the run or the sample
// record could not be built; assertion failures are carried in Results.
func (r *Runner) Run(ctx context.Context, phase Phase) (Results, error) {
	if _, ok := ctxutil.RunIDFromCtx(ctx); !ok {
		ctx = ctxutil.WithRunID(ctx, uuid.New())
	}
	log := r.deps.Logger

	log.InfoContext(ctx, "conformance run started",
		slog.String("table", r.deps.Descriptor.Table()),
		slog.String("type_policy", r.deps.Reconciler.Policy().String()),
	)

	var (
		results Results
		err     error
	)
	if phase&PhaseSchema != 0 {
		var res Results
		res, err = r.runSchema(ctx)
		results.merge(res)
	}
	if err == nil && phase&PhaseConstraints != 0 {
		var res Results
		res, err = r.runConstraints(ctx)
		results.merge(res)
	}
	if err != nil {
		results.Aborted = err.Error()
		log.ErrorContext(ctx, "conformance run aborted", slog.String("error", err.Error()))
	}

	r.deps.Reporter.RunFinished(results)
	log.InfoContext(ctx, "conformance run finished",
		slog.Int("passed", results.Passed),
		slog.Int("failed", results.Failed),
	)
	return results, err
}

// scenario is one named check. reset runs before body and cleanup after it,
// so no scenario sees rows another one left behind.
type scenario struct {
	id      ScenarioID
	reset   resetMode
	cleanup resetMode
	body    func(ctx context.Context, s *scope) error
}

type resetMode int

const (
	resetNone resetMode = iota
	resetAll
	resetRestartIdentity
)

// runScenarios executes scenarios in order. A transport failure stops the
// sequence and is returned; any other error fails just that scenario.
func (r *Runner) runScenarios(ctx context.Context, scenarios []scenario) (Results, error) {
	var results Results
	for _, sc := range scenarios {
		res, err := r.runScenario(ctx, sc)
		results.add(res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *Runner) runScenario(ctx context.Context, sc scenario) (ScenarioResult, error) {
	id := sc.id.String()
	ctx = ctxutil.WithScenario(ctx, id)
	r.deps.Reporter.ScenarioStarted(sc.id)

	start := time.Now()
	s := &scope{}
	err := r.reset(ctx, sc.reset)
	if err == nil {
		err = sc.body(ctx, s)
	}

	var abort error
	if err != nil {
		if domain.IsTransport(err) {
			abort = err
		}
		s.Failf("%v", err)
	}
	if abort == nil && sc.cleanup != resetNone {
		if cerr := r.reset(ctx, sc.cleanup); cerr != nil {
			if domain.IsTransport(cerr) {
				abort = cerr
			}
			s.Failf("cleanup: %v", cerr)
		}
	}

	res := ScenarioResult{
		ID:       id,
		Passed:   !s.failed(),
		Failures: s.failures,
		Duration: time.Since(start),
	}
	r.deps.Reporter.ScenarioFinished(res)
	r.deps.Logger.DebugContext(ctx, "scenario finished", slog.Bool("passed", res.Passed))

	return res, abort
}

func (r *Runner) reset(ctx context.Context, mode resetMode) error {
	switch mode {
	case resetAll:
		return r.deps.Fixture.ResetAll(ctx)
	case resetRestartIdentity:
		return r.deps.Fixture.ResetAllAndRestartIdentity(ctx)
	}
	return nil
}

// errSetup marks a precondition the scenario could not establish.
var errSetup = errors.New("setup failed")
