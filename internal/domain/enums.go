package domain

// ReconciliationStatus is the verdict for one expected field.
type ReconciliationStatus string

const (
	StatusMatched      ReconciliationStatus = "MATCHED"
	StatusMissing      ReconciliationStatus = "MISSING"
	StatusTypeMismatch ReconciliationStatus = "TYPE_MISMATCH"
)

func (s ReconciliationStatus) String() string { return string(s) }

func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case StatusMatched, StatusMissing, StatusTypeMismatch:
		return true
	}
	return false
}

// RejectionKind classifies why the store refused a data-manipulation statement.
type RejectionKind string

const (
	RejectionFormat         RejectionKind = "FORMAT_VIOLATION"
	RejectionNotNull        RejectionKind = "NOT_NULL_VIOLATION"
	RejectionTypeConversion RejectionKind = "TYPE_CONVERSION_FAILURE"
	RejectionUniqueness     RejectionKind = "UNIQUENESS_VIOLATION"
)

func (k RejectionKind) String() string { return string(k) }

func (k RejectionKind) IsValid() bool {
	switch k {
	case RejectionFormat, RejectionNotNull, RejectionTypeConversion, RejectionUniqueness:
		return true
	}
	return false
}

// TypePolicy controls how observed and expected type tags are compared.
type TypePolicy string

const (
	// TypePolicyExact compares the full tag, modifiers included.
	TypePolicyExact TypePolicy = "exact"
	// TypePolicyLenient ignores type modifiers such as precision or length.
	TypePolicyLenient TypePolicy = "lenient"
)

func (p TypePolicy) String() string { return string(p) }

func (p TypePolicy) IsValid() bool {
	switch p {
	case TypePolicyExact, TypePolicyLenient:
		return true
	}
	return false
}
