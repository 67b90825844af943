package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is one operator-entered currency field. Empty and malformed text both
// count as zero in live totals; Invalid keeps the malformed case visible.
type Amount struct {
	Raw     string
	Value   decimal.Decimal
	Invalid bool
}

// MaxAmountDigits caps the digits of one entered amount.
const MaxAmountDigits = 18

// Plain digits, or digits grouped by threes with commas, and an optional fraction.
var amountPattern = regexp.MustCompile(`^(\d{1,3}(,\d{3})*|\d*)(\.\d+)?$`)

// ParseAmount never fails: negative, non-numeric or oversized text yields a zero,
// Invalid amount. Thousands separators are accepted only in their proper places.
func ParseAmount(raw string) Amount {
	text := strings.TrimSpace(raw)
	a := Amount{Raw: text}
	if text == "" {
		return a
	}

	digits := strings.ReplaceAll(text, ",", "")
	if !amountPattern.MatchString(text) || len(digits)-strings.Count(digits, ".") > MaxAmountDigits {
		a.Invalid = true
		return a
	}

	d, err := decimal.NewFromString(digits)
	if err != nil || d.IsNegative() {
		a.Invalid = true
		return a
	}
	a.Value = d
	return a
}

// AmountOf wraps an already-known value, such as a balance loaded from the previous day.
func AmountOf(d decimal.Decimal) Amount {
	return Amount{Raw: d.StringFixed(2), Value: d}
}

// Empty reports whether nothing was entered.
func (a Amount) Empty() bool {
	return a.Raw == ""
}
