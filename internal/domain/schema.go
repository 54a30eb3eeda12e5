package domain

// LogicalType is a normalized column type tag, e.g. "text", "date",
// "timestamp" or "character varying(255)".
type LogicalType string

func (t LogicalType) String() string { return string(t) }

// Base returns the tag without its type modifier: "timestamp(3)" → "timestamp".
func (t LogicalType) Base() LogicalType {
	return LogicalType(StripTypeModifier(string(t)))
}

// Well-known logical type tags.
const (
	TypeInteger     LogicalType = "integer"
	TypeBigint      LogicalType = "bigint"
	TypeText        LogicalType = "text"
	TypeVarchar     LogicalType = "character varying"
	TypeDate        LogicalType = "date"
	TypeTimestamp   LogicalType = "timestamp"
	TypeTimestampTZ LogicalType = "timestamptz"
	TypeBoolean     LogicalType = "boolean"
)

// FieldExpectation declares the expected type of one column.
type FieldExpectation struct {
	Name string
	Type LogicalType
}

// ObservedSchema maps column names to the type tags reported by the catalog.
type ObservedSchema map[string]LogicalType

// Has reports whether the column was observed.
func (s ObservedSchema) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ReconciliationResult is the verdict for one FieldExpectation.
// Observed is empty when Status is StatusMissing.
type ReconciliationResult struct {
	Field    string
	Status   ReconciliationStatus
	Expected LogicalType
	Observed LogicalType
}

// OK reports whether the field matched.
func (r ReconciliationResult) OK() bool { return r.Status == StatusMatched }
