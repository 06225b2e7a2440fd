package cogs

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

func TestConvertQtySameUnit(t *testing.T) {
	qty := decimal.RequireFromString("3.5")
	got, err := ConvertQty(qty, enums.UnitGram, enums.UnitGram)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !got.Equal(qty) {
		t.Fatalf("expected %s, got %s", qty, got)
	}
}

func TestConvertQtyWithinFamily(t *testing.T) {
	cases := []struct {
		qty      string
		from, to enums.MeasureUnit
		want     string
	}{
		{"2", enums.UnitKilogram, enums.UnitGram, "2000"},
		{"500000", enums.UnitMilligram, enums.UnitKilogram, "0.5"},
		{"2", enums.UnitOunce, enums.UnitGram, "56.69904625"},
		{"1", enums.UnitPound, enums.UnitOunce, "16"},
		{"1.5", enums.UnitLiter, enums.UnitMilliliter, "1500"},
		{"1", enums.UnitFluidOunce, enums.UnitMilliliter, "29.5735295625"},
	}

	for _, tc := range cases {
		got, err := ConvertQty(decimal.RequireFromString(tc.qty), tc.from, tc.to)
		if err != nil {
			t.Fatalf("convert %s %s to %s: %v", tc.qty, tc.from, tc.to, err)
		}
		if want := decimal.RequireFromString(tc.want); !got.Equal(want) {
			t.Fatalf("convert %s %s to %s: expected %s, got %s", tc.qty, tc.from, tc.to, want, got)
		}
	}
}

func TestConvertQtyCrossFamily(t *testing.T) {
	_, err := ConvertQty(decimal.NewFromInt(1), enums.UnitGram, enums.UnitMilliliter)
	if err == nil {
		t.Fatalf("expected cross-family conversion to fail")
	}
	apiErr := pkgerrors.As(err)
	if apiErr == nil || apiErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := apiErr.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", apiErr.Details())
	}
	if details["from_family"] != string(enums.UnitFamilyMass) || details["to_family"] != string(enums.UnitFamilyVolume) {
		t.Fatalf("unexpected details %v", details)
	}

	if _, err := ConvertQty(decimal.NewFromInt(1), enums.UnitEach, enums.UnitGram); err == nil {
		t.Fatalf("expected count to mass conversion to fail")
	}
}

func TestConvertQtyInvalidUnit(t *testing.T) {
	if _, err := ConvertQty(decimal.NewFromInt(1), enums.MeasureUnit("bushel"), enums.UnitGram); err == nil {
		t.Fatalf("expected error for unknown source unit")
	}
	if _, err := ConvertQty(decimal.NewFromInt(1), enums.UnitGram, enums.MeasureUnit("")); err == nil {
		t.Fatalf("expected error for unknown target unit")
	}
}
