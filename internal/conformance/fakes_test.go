package conformance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/users-conformance/internal/domain"
	"github.com/heartmarshall/users-conformance/internal/schema"
)

// ===========================================================================
// Manual fakes
// ===========================================================================

type mockReader struct {
	ReadSchemaFunc func(ctx context.Context, table string) (domain.ObservedSchema, error)
}

func (m *mockReader) ReadSchema(ctx context.Context, table string) (domain.ObservedSchema, error) {
	if m.ReadSchemaFunc != nil {
		return m.ReadSchemaFunc(ctx, table)
	}
	return conformingSchema(), nil
}

// conformingSchema is an observed schema that matches UsersDescriptor exactly.
func conformingSchema() domain.ObservedSchema {
	obs := make(domain.ObservedSchema)
	for _, f := range schema.UsersDescriptor().Fields() {
		obs[f.Name] = f.Type
	}
	return obs
}

// fakeStore is an in-memory table that enforces the users constraints.
// Its knobs let tests break one behavior at a time.
type fakeStore struct {
	rows   []domain.UserRecord
	nextID int64
	now    time.Time

	acceptInvalidEmail bool
	acceptDuplicates   bool
	keepIdentity       bool
	// transportOn names an operation that fails with a transport error.
	transportOn string
	// transportOnCall fails only the n-th call (1-based) of an operation.
	transportOnCall map[string]int

	ops   []string
	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) op(name string) error {
	f.ops = append(f.ops, name)
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
	if f.transportOn == name || (f.transportOnCall != nil && f.transportOnCall[name] == f.calls[name]) {
		return fmt.Errorf("%s: %w: connection reset by peer", name, domain.ErrTransport)
	}
	return nil
}

func (f *fakeStore) insert(cols map[string]any) (domain.ProbeOutcome, error) {
	if err := f.op("insert"); err != nil {
		return domain.ProbeOutcome{}, err
	}
	for _, field := range domain.RequiredUserFields {
		if _, ok := cols[field]; !ok {
			return domain.Rejected(domain.Rejection{Kind: domain.RejectionNotNull, Column: field}), nil
		}
	}
	email, _ := cols["email"].(string)
	if !f.acceptInvalidEmail && !strings.Contains(email, "@") {
		return domain.Rejected(domain.Rejection{Kind: domain.RejectionFormat, Constraint: "users_email_check"}), nil
	}
	if b, ok := cols["birthdate"].(string); ok {
		if _, err := time.Parse(time.DateOnly, b); err != nil {
			return domain.Rejected(domain.Rejection{Kind: domain.RejectionTypeConversion}), nil
		}
	}
	username, _ := cols["username"].(string)
	if !f.acceptDuplicates {
		for _, r := range f.rows {
			if r.Email == email || r.Username == username {
				return domain.Rejected(domain.Rejection{Kind: domain.RejectionUniqueness, Constraint: "users_email_key"}), nil
			}
		}
	}

	f.nextID++
	password, _ := cols["password"].(string)
	rec := domain.UserRecord{
		ID:        f.nextID,
		Email:     email,
		Username:  username,
		Password:  password,
		CreatedAt: f.now,
	}
	f.rows = append(f.rows, rec)
	return domain.Accepted(rec), nil
}

func (f *fakeStore) InsertValid(_ context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	return f.insert(in.Columns())
}

func (f *fakeStore) InsertWithInvalidEmail(_ context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	in.Email = "user"
	return f.insert(in.Columns())
}

func (f *fakeStore) InsertWithInvalidDate(_ context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	in.Birthdate = "invalid_date"
	return f.insert(in.Columns())
}

func (f *fakeStore) InsertMissingRequiredField(_ context.Context, in domain.UserInput, field string) (domain.ProbeOutcome, error) {
	cols := in.Columns()
	delete(cols, field)
	return f.insert(cols)
}

func (f *fakeStore) InsertDuplicate(_ context.Context, in domain.UserInput) (domain.ProbeOutcome, error) {
	first, err := f.insert(in.Columns())
	if err != nil || !first.Accepted {
		return first, err
	}
	return f.insert(in.Columns())
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return f.DeleteByKey(ctx, "id", id)
}

func (f *fakeStore) DeleteByKey(_ context.Context, column string, value any) (int64, error) {
	if err := f.op("delete"); err != nil {
		return 0, err
	}
	if column != "id" {
		return 0, domain.NewValidationError(column, "unsupported by fake")
	}
	id := value.(int64)
	kept := f.rows[:0]
	var n int64
	for _, r := range f.rows {
		if r.ID == id {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeStore) Exists(_ context.Context, id int64) (bool, error) {
	if err := f.op("exists"); err != nil {
		return false, err
	}
	for _, r := range f.rows {
		if r.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) List(context.Context) ([]domain.UserRecord, error) {
	if err := f.op("list"); err != nil {
		return nil, err
	}
	return append([]domain.UserRecord(nil), f.rows...), nil
}

func (f *fakeStore) ResetAll(context.Context) error {
	if err := f.op("reset"); err != nil {
		return err
	}
	f.rows = nil
	return nil
}

func (f *fakeStore) ResetAllAndRestartIdentity(context.Context) error {
	if err := f.op("reset-identity"); err != nil {
		return err
	}
	f.rows = nil
	if !f.keepIdentity {
		f.nextID = 0
	}
	return nil
}

type recordingReporter struct {
	started  []string
	finished []ScenarioResult
	final    *Results
}

func (r *recordingReporter) ScenarioStarted(id ScenarioID) {
	r.started = append(r.started, id.String())
}

func (r *recordingReporter) ScenarioFinished(res ScenarioResult) {
	r.finished = append(r.finished, res)
}

func (r *recordingReporter) RunFinished(results Results) { r.final = &results }
