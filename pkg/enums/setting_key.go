package enums

import "fmt"

// SettingKey enumerates the tenant settings the dashboard may write.
type SettingKey string

const (
	SettingReceiptHeader  SettingKey = "receipt_header"
	SettingReceiptFooter  SettingKey = "receipt_footer"
	SettingCurrencyCode   SettingKey = "currency_code"
	SettingTimezone       SettingKey = "timezone"
	SettingLowStockAlerts SettingKey = "low_stock_alerts"
)

var validSettingKeys = []SettingKey{
	SettingReceiptHeader,
	SettingReceiptFooter,
	SettingCurrencyCode,
	SettingTimezone,
	SettingLowStockAlerts,
}

// String implements fmt.Stringer.
func (s SettingKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SettingKey.
func (s SettingKey) IsValid() bool {
	for _, candidate := range validSettingKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSettingKey converts raw input into a SettingKey.
func ParseSettingKey(value string) (SettingKey, error) {
	for _, candidate := range validSettingKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid setting key %q", value)
}
