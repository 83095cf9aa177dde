package utils

import "fmt"

// FormatPrice formats a monetary value with the tenant's currency code,
// e.g. 25 -> "25.00 SAR". A nil amount stays nil so missing prices are
// never rendered as "0.00".
func FormatPrice(amount *float64, currency string) *string {
	if amount == nil {
		return nil
	}
	formatted := fmt.Sprintf("%.2f %s", *amount, currency)
	return &formatted
}
