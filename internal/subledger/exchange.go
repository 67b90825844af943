package subledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// Column names written for the exchange sheet.
const (
	ExchangeGrandTotal = "mc_grand_total"
	ExchangeEntryCount = "mc_entries_count"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Bounds on an exchange rate's representation.
const (
	maxRateDigits   = 18
	maxRateScale    = 8
	maxRateExponent = 6
)

// PriceLine validates one exchange line and computes its peso total.
func PriceLine(currency string, quantity int64, rate decimal.Decimal) (models.ExchangeLine, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return models.ExchangeLine{}, fmt.Errorf("invalid currency code %q", currency)
	}
	if quantity < 0 {
		return models.ExchangeLine{}, fmt.Errorf("%s: quantity must not be negative", currency)
	}
	if rate.IsNegative() {
		return models.ExchangeLine{}, fmt.Errorf("%s: rate must not be negative", currency)
	}
	if exp := rate.Exponent(); exp < -maxRateScale || exp > maxRateExponent || rate.NumDigits() > maxRateDigits {
		return models.ExchangeLine{}, fmt.Errorf("%s: rate %s is out of range", currency, rate.String())
	}

	return models.ExchangeLine{
		Currency: currency,
		Quantity: quantity,
		Rate:     rate,
		Total:    rate.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// ExchangeTotals sums the sheet into its grand total and line count columns.
func ExchangeTotals(lines []models.ExchangeLine) map[string]decimal.Decimal {
	grand := decimal.Zero
	for _, line := range lines {
		grand = grand.Add(line.Total)
	}
	return map[string]decimal.Decimal{
		ExchangeGrandTotal: grand,
		ExchangeEntryCount: decimal.NewFromInt(int64(len(lines))),
	}
}

// Flatten merges category amounts with the derived partner and exchange columns.
// The input map is not modified.
func Flatten(amounts map[string]decimal.Decimal, lines []models.ExchangeLine) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(amounts)+5)
	for code, amount := range amounts {
		out[code] = amount
	}
	for code, amount := range PartnerTotals(amounts) {
		out[code] = amount
	}
	for code, amount := range ExchangeTotals(lines) {
		out[code] = amount
	}
	return out
}
