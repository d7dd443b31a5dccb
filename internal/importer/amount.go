package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads plain ("1234.56") and European ("1.234,56") amounts.
// A comma marks the European form; its dots are thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "%")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(strings.TrimSpace(clean))
}

// parseRate reads a VAT column. Values above 1 are percentages ("19" or
// "19%"), everything else is already a rate ("0.19").
func parseRate(s string) (decimal.Decimal, error) {
	d, err := parseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}

	if d.GreaterThan(decimal.NewFromInt(1)) {
		return d.Shift(-2), nil
	}

	return d, nil
}
