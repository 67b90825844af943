package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
)

// Tolerance is the one-cent band inside which two currency values are equal.
var Tolerance = decimal.New(1, -2)

// Totals is the derived balance of one day.
type Totals struct {
	Debit  decimal.Decimal `json:"debit_total"`
	Credit decimal.Decimal `json:"credit_total"`
	Ending decimal.Decimal `json:"ending_balance"`
}

// ComputeTotals sums debit and credit categories and derives
// ending = beginning + debit - credit. Partner and unknown codes do not count.
func ComputeTotals(cat *catalog.Catalog, beginning decimal.Decimal, amounts map[string]Amount) Totals {
	debit, credit := decimal.Zero, decimal.Zero
	for code, amount := range amounts {
		c, ok := cat.Lookup(code)
		if !ok {
			continue
		}
		switch c.Kind {
		case catalog.KindDebit:
			debit = debit.Add(amount.Value)
		case catalog.KindCredit:
			credit = credit.Add(amount.Value)
		}
	}

	return Totals{
		Debit:  debit,
		Credit: credit,
		Ending: beginning.Add(debit).Sub(credit),
	}
}

// ComputeVariance returns cash_count - ending: positive is over, negative is short.
func ComputeVariance(cashCount, ending decimal.Decimal) decimal.Decimal {
	return cashCount.Sub(ending)
}

// WithinTolerance reports |d| < 0.01.
func WithinTolerance(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// Variance classifies a cash result.
type Variance string

const (
	VarianceBalanced Variance = "balanced"
	VarianceOver     Variance = "over"
	VarianceShort    Variance = "short"
)

// Classify maps a cash result onto balanced, over or short.
func Classify(cashResult decimal.Decimal) Variance {
	switch {
	case WithinTolerance(cashResult):
		return VarianceBalanced
	case cashResult.IsPositive():
		return VarianceOver
	default:
		return VarianceShort
	}
}
