package cogs

import (
	"github.com/shopspring/decimal"

	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

// Conversion factors into each family's base unit (grams, milliliters,
// each). Imperial factors are the exact legal definitions.
var unitToBase = map[enums.MeasureUnit]decimal.Decimal{
	enums.UnitMilligram:  decimal.RequireFromString("0.001"),
	enums.UnitGram:       decimal.NewFromInt(1),
	enums.UnitKilogram:   decimal.NewFromInt(1000),
	enums.UnitOunce:      decimal.RequireFromString("28.349523125"),
	enums.UnitPound:      decimal.RequireFromString("453.59237"),
	enums.UnitMilliliter: decimal.NewFromInt(1),
	enums.UnitLiter:      decimal.NewFromInt(1000),
	enums.UnitFluidOunce: decimal.RequireFromString("29.5735295625"),
	enums.UnitEach:       decimal.NewFromInt(1),
}

// ConvertQty expresses qty given in `from` units as a quantity of `to`
// units. Conversion is only defined within a unit family; asking to convert
// grams to milliliters is a validation error, not a guess.
func ConvertQty(qty decimal.Decimal, from, to enums.MeasureUnit) (decimal.Decimal, error) {
	if !from.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid measure unit "+from.String())
	}
	if !to.IsValid() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid measure unit "+to.String())
	}
	if from == to {
		return qty, nil
	}
	if from.Family() != to.Family() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
			"cannot convert "+from.String()+" to "+to.String()).
			WithDetails(map[string]any{"from_family": string(from.Family()), "to_family": string(to.Family())})
	}
	return qty.Mul(unitToBase[from]).Div(unitToBase[to]), nil
}
