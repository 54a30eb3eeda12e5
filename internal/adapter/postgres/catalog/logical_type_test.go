package catalog

import (
	"testing"

	"github.com/heartmarshall/users-conformance/internal/domain"
)

func int32Ptr(v int32) *int32 { return &v }

func TestLogicalType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  columnRow
		want domain.LogicalType
	}{
		{name: "integer", row: columnRow{DataType: "integer"}, want: domain.TypeInteger},
		{name: "text", row: columnRow{DataType: "text"}, want: domain.TypeText},
		{name: "date ignores precision", row: columnRow{DataType: "date", DatetimePrecision: int32Ptr(0)}, want: domain.TypeDate},
		{name: "default timestamp", row: columnRow{DataType: "timestamp without time zone", DatetimePrecision: int32Ptr(6)}, want: domain.TypeTimestamp},
		{name: "timestamp(3)", row: columnRow{DataType: "timestamp without time zone", DatetimePrecision: int32Ptr(3)}, want: "timestamp(3)"},
		{name: "timestamptz(0)", row: columnRow{DataType: "timestamp with time zone", DatetimePrecision: int32Ptr(0)}, want: "timestamptz(0)"},
		{name: "varchar(255)", row: columnRow{DataType: "character varying", CharMaxLength: int32Ptr(255)}, want: "character varying(255)"},
		{name: "unbounded varchar", row: columnRow{DataType: "character varying"}, want: domain.TypeVarchar},
		{name: "boolean", row: columnRow{DataType: "boolean"}, want: domain.TypeBoolean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := logicalType(tt.row); got != tt.want {
				t.Errorf("logicalType(%+v) = %q, want %q", tt.row, got, tt.want)
			}
		})
	}
}
