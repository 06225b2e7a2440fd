package enums

import "fmt"

// MeasureUnit identifies the unit a quantity of stock or a recipe component
// is expressed in. Units belong to a family; conversion is only defined
// within a family.
type MeasureUnit string

const (
	UnitMilligram  MeasureUnit = "mg"
	UnitGram       MeasureUnit = "g"
	UnitKilogram   MeasureUnit = "kg"
	UnitOunce      MeasureUnit = "oz"
	UnitPound      MeasureUnit = "lb"
	UnitMilliliter MeasureUnit = "ml"
	UnitLiter      MeasureUnit = "l"
	UnitFluidOunce MeasureUnit = "floz"
	UnitEach       MeasureUnit = "each"
)

// UnitFamily groups units that convert between each other.
type UnitFamily string

const (
	UnitFamilyMass   UnitFamily = "mass"
	UnitFamilyVolume UnitFamily = "volume"
	UnitFamilyCount  UnitFamily = "count"
)

var validMeasureUnits = []MeasureUnit{
	UnitMilligram,
	UnitGram,
	UnitKilogram,
	UnitOunce,
	UnitPound,
	UnitMilliliter,
	UnitLiter,
	UnitFluidOunce,
	UnitEach,
}

var unitFamilies = map[MeasureUnit]UnitFamily{
	UnitMilligram:  UnitFamilyMass,
	UnitGram:       UnitFamilyMass,
	UnitKilogram:   UnitFamilyMass,
	UnitOunce:      UnitFamilyMass,
	UnitPound:      UnitFamilyMass,
	UnitMilliliter: UnitFamilyVolume,
	UnitLiter:      UnitFamilyVolume,
	UnitFluidOunce: UnitFamilyVolume,
	UnitEach:       UnitFamilyCount,
}

// String implements fmt.Stringer.
func (m MeasureUnit) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeasureUnit.
func (m MeasureUnit) IsValid() bool {
	for _, candidate := range validMeasureUnits {
		if candidate == m {
			return true
		}
	}
	return false
}

// Family returns the conversion family the unit belongs to.
func (m MeasureUnit) Family() UnitFamily {
	return unitFamilies[m]
}

// ParseMeasureUnit converts raw input into a MeasureUnit.
func ParseMeasureUnit(value string) (MeasureUnit, error) {
	for _, candidate := range validMeasureUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid measure unit %q", value)
}
