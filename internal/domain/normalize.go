package domain

import (
	"strings"
)

// catalogAliases maps spelled-out catalog type names to logical tags.
var catalogAliases = map[string]string{
	"int":                         "integer",
	"int4":                        "integer",
	"int8":                        "bigint",
	"int2":                        "smallint",
	"bool":                        "boolean",
	"varchar":                     "character varying",
	"timestamp without time zone": "timestamp",
	"timestamp with time zone":    "timestamptz",
	"time without time zone":      "time",
	"time with time zone":         "timetz",
	"double precision":            "float8",
	"real":                        "float4",
}

// NormalizeTypeTag turns a catalog type name into a logical tag:
//   - trims and lowercases
//   - compresses runs of whitespace
//   - resolves aliases ("timestamp without time zone" → "timestamp")
//
// A trailing modifier such as "(3)" is kept and re-attached after aliasing.
// Distinct types are never merged: "character varying" stays distinct from "text".
func NormalizeTypeTag(raw string) LogicalType {
	tag := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if tag == "" {
		return ""
	}

	base, mod := splitModifier(tag)
	if alias, ok := catalogAliases[base]; ok {
		base = alias
	}
	return LogicalType(base + mod)
}

// StripTypeModifier removes a trailing "(...)" modifier from a tag.
func StripTypeModifier(tag string) string {
	base, _ := splitModifier(tag)
	return base
}

func splitModifier(tag string) (string, string) {
	if !strings.HasSuffix(tag, ")") {
		return tag, ""
	}
	i := strings.LastIndexByte(tag, '(')
	if i <= 0 {
		return tag, ""
	}
	return strings.TrimSpace(tag[:i]), tag[i:]
}
