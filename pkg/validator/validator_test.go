package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sample struct {
	ID     uuid.UUID       `validate:"uuid_required"`
	Name   string          `validate:"required"`
	Amount decimal.Decimal `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	ok := sample{ID: uuid.New(), Name: "cabo HDMI", Amount: decimal.RequireFromString("12.50")}
	if errs := ValidateStruct(&ok); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs[0])
	}

	tests := []struct {
		name  string
		in    sample
		field string
		tag   string
	}{
		{"nil uuid", sample{Name: "x"}, "sample.ID", "uuid_required"},
		{"missing name", sample{ID: uuid.New()}, "sample.Name", "required"},
		{"negative amount", sample{ID: uuid.New(), Name: "x", Amount: decimal.NewFromInt(-1)}, "sample.Amount", "gte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateStruct(&tt.in)
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d", len(errs))
			}
			if errs[0].FailedField != tt.field || errs[0].Tag != tt.tag {
				t.Errorf("got %s/%s, want %s/%s", errs[0].FailedField, errs[0].Tag, tt.field, tt.tag)
			}
		})
	}

	if err := Validate(&sample{}); err == nil {
		t.Error("Validate should report the first failure")
	}
}
