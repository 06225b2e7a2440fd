package enums

import "fmt"

// AdjustmentReason explains why a stock level changed.
type AdjustmentReason string

const (
	AdjustmentReasonReceived AdjustmentReason = "received"
	AdjustmentReasonWaste    AdjustmentReason = "waste"
	AdjustmentReasonCount    AdjustmentReason = "count"
	AdjustmentReasonTransfer AdjustmentReason = "transfer"
	AdjustmentReasonSale     AdjustmentReason = "sale"
)

var validAdjustmentReasons = []AdjustmentReason{
	AdjustmentReasonReceived,
	AdjustmentReasonWaste,
	AdjustmentReasonCount,
	AdjustmentReasonTransfer,
	AdjustmentReasonSale,
}

// String implements fmt.Stringer.
func (a AdjustmentReason) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentReason.
func (a AdjustmentReason) IsValid() bool {
	for _, candidate := range validAdjustmentReasons {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentReason converts raw input into an AdjustmentReason.
func ParseAdjustmentReason(value string) (AdjustmentReason, error) {
	for _, candidate := range validAdjustmentReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment reason %q", value)
}
