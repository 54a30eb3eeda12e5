// Package schema declares expected table schemas and reconciles them against
// what the store reports.
package schema

import (
	"fmt"
	"regexp"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Descriptor is the ordered list of expected columns for one table.
// It is immutable once built.
type Descriptor struct {
	table  string
	fields []domain.FieldExpectation
}

// NewDescriptor validates fields and builds a Descriptor. Names must be unique
// lowercase SQL identifiers and every field needs a type.
func NewDescriptor(table string, fields []domain.FieldExpectation) (*Descriptor, error) {
	var errs []domain.FieldError

	if !identifierRe.MatchString(table) {
		errs = append(errs, domain.FieldError{Field: "table", Message: fmt.Sprintf("invalid identifier %q", table)})
	}
	if len(fields) == 0 {
		errs = append(errs, domain.FieldError{Field: "fields", Message: "at least one field required"})
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if !identifierRe.MatchString(f.Name) {
			errs = append(errs, domain.FieldError{Field: f.Name, Message: "invalid identifier"})
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, domain.FieldError{Field: f.Name, Message: "duplicate field"})
			continue
		}
		seen[f.Name] = struct{}{}
		if f.Type == "" {
			errs = append(errs, domain.FieldError{Field: f.Name, Message: "type required"})
		}
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	return &Descriptor{
		table:  table,
		fields: append([]domain.FieldExpectation(nil), fields...),
	}, nil
}

// MustNewDescriptor is like NewDescriptor but panics on error.
func MustNewDescriptor(table string, fields []domain.FieldExpectation) *Descriptor {
	d, err := NewDescriptor(table, fields)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return d
}

// Table returns the table the descriptor applies to.
func (d *Descriptor) Table() string { return d.table }

// Fields returns a copy of the expectations in declaration order.
func (d *Descriptor) Fields() []domain.FieldExpectation {
	return append([]domain.FieldExpectation(nil), d.fields...)
}

// Has reports whether the descriptor declares a column.
func (d *Descriptor) Has(name string) bool {
	for _, f := range d.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// UsersDescriptor returns the built-in contract for the users table.
func UsersDescriptor() *Descriptor {
	return MustNewDescriptor("users", []domain.FieldExpectation{
		{Name: "id", Type: domain.TypeInteger},
		{Name: "email", Type: domain.TypeText},
		{Name: "username", Type: domain.TypeText},
		{Name: "birthdate", Type: domain.TypeDate},
		{Name: "city", Type: domain.TypeText},
		{Name: "first_name", Type: domain.TypeText},
		{Name: "last_name", Type: domain.TypeText},
		{Name: "password", Type: domain.TypeText},
		{Name: "created_at", Type: domain.TypeTimestamp},
		{Name: "enabled", Type: domain.TypeBoolean},
		{Name: "last_access_time", Type: domain.TypeTimestamp},
	})
}
