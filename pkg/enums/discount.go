package enums

import "fmt"

// DiscountKind distinguishes percentage discounts from fixed amounts.
type DiscountKind string

const (
	DiscountKindPercent DiscountKind = "percent"
	DiscountKindAmount  DiscountKind = "amount"
)

var validDiscountKinds = []DiscountKind{
	DiscountKindPercent,
	DiscountKindAmount,
}

// String implements fmt.Stringer.
func (d DiscountKind) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountKind.
func (d DiscountKind) IsValid() bool {
	for _, candidate := range validDiscountKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountKind converts raw input into a DiscountKind.
func ParseDiscountKind(value string) (DiscountKind, error) {
	for _, candidate := range validDiscountKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount kind %q", value)
}

// DiscountScope controls whether a discount applies to a whole order or a
// single line item.
type DiscountScope string

const (
	DiscountScopeOrder DiscountScope = "order"
	DiscountScopeItem  DiscountScope = "item"
)

var validDiscountScopes = []DiscountScope{
	DiscountScopeOrder,
	DiscountScopeItem,
}

// String implements fmt.Stringer.
func (d DiscountScope) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountScope.
func (d DiscountScope) IsValid() bool {
	for _, candidate := range validDiscountScopes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountScope converts raw input into a DiscountScope.
func ParseDiscountScope(value string) (DiscountScope, error) {
	for _, candidate := range validDiscountScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount scope %q", value)
}
