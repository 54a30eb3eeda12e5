package domain

import "fmt"

// Rejection describes a statement the store refused because of a constraint.
// Constraint and Column come from the store's structured error fields; Detail
// is the raw message and is never used for matching.
type Rejection struct {
	Kind       RejectionKind
	Constraint string
	Column     string
	Detail     string
}

func (r Rejection) String() string {
	switch {
	case r.Constraint != "":
		return fmt.Sprintf("%s (constraint %s)", r.Kind, r.Constraint)
	case r.Column != "":
		return fmt.Sprintf("%s (column %s)", r.Kind, r.Column)
	default:
		return r.Kind.String()
	}
}

// ProbeOutcome is the result of a probe: either Accepted with the stored
// record or rejected with a classified Rejection.
type ProbeOutcome struct {
	Accepted  bool
	Record    *UserRecord
	Rejection *Rejection
}

// Accepted builds an accepted outcome.
func Accepted(rec UserRecord) ProbeOutcome {
	return ProbeOutcome{Accepted: true, Record: &rec}
}

// Rejected builds a rejected outcome.
func Rejected(r Rejection) ProbeOutcome {
	return ProbeOutcome{Rejection: &r}
}

// RejectedAs reports whether the outcome is a rejection of the given kind.
func (o ProbeOutcome) RejectedAs(kind RejectionKind) bool {
	return !o.Accepted && o.Rejection != nil && o.Rejection.Kind == kind
}

func (o ProbeOutcome) String() string {
	if o.Accepted {
		if o.Record != nil {
			return fmt.Sprintf("ACCEPTED (id %d)", o.Record.ID)
		}
		return "ACCEPTED"
	}
	if o.Rejection == nil {
		return "REJECTED"
	}
	return "REJECTED " + o.Rejection.String()
}
