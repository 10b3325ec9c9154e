// Package currencyutils normalizes the amount strings found in bank
// statement exports into decimal values.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// symbolPattern strips currency symbols, currency codes and whitespace.
// Letters cover the codes we see in exports (CHF, EUR, USD, GBP, ZAR, R).
var symbolPattern = regexp.MustCompile(`(?i)[€$£¥₣₹₽₩฿\s]|CHF|EUR|USD|GBP|ZAR|\bR\b|^R`)

// NormalizeAmount converts a raw statement amount into a decimal.
//
// Currency symbols, thousands separators and surrounding whitespace are
// stripped. Parenthesized values are stripped of their parentheses, not
// negated; that diverges from accounting notation and is kept as the
// documented behavior. Unparseable input yields zero, never an error, so
// one bad cell does not fail an import.
func NormalizeAmount(raw string) decimal.Decimal {
	standardized := Standardize(raw)
	if standardized == "" {
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// Standardize converts the various currency string formats into a plain
// decimal literal parseable by decimal.NewFromString. Handles patterns
// like "R 1,234.56", "CHF 1'234.56", "€1.234,56" and "(500.00)".
func Standardize(raw string) string {
	amount := strings.TrimSpace(raw)

	// Parentheses are stripped, not interpreted as negation.
	amount = strings.ReplaceAll(amount, "(", "")
	amount = strings.ReplaceAll(amount, ")", "")

	amount = symbolPattern.ReplaceAllString(amount, "")

	// Disambiguate comma usage: decimal separator in European exports,
	// thousands separator otherwise.
	if strings.Contains(amount, ",") && strings.Contains(amount, ".") {
		if strings.LastIndex(amount, ".") < strings.LastIndex(amount, ",") {
			// European format (1.234,56)
			amount = strings.ReplaceAll(amount, ".", "")
			amount = strings.ReplaceAll(amount, ",", ".")
		} else {
			amount = strings.ReplaceAll(amount, ",", "")
		}
	} else if strings.Contains(amount, ",") {
		parts := strings.Split(amount, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma as decimal separator (1234,56)
			amount = strings.ReplaceAll(amount, ",", ".")
		} else {
			amount = strings.ReplaceAll(amount, ",", "")
		}
	}

	// Apostrophes as thousands separators (1'234.56)
	amount = strings.ReplaceAll(amount, "'", "")

	return amount
}

// FormatFixed renders an amount with exactly two decimal places, the
// representation used by fingerprints and the canonical export.
func FormatFixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsNegative reports whether the amount is below zero.
func IsNegative(amount decimal.Decimal) bool {
	return amount.LessThan(decimal.Zero)
}
