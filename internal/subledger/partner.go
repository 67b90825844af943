// Package subledger flattens the remittance partner and currency exchange sheets
// into the column-keyed amounts stored with a daily report.
package subledger

import (
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
)

// PartnerTotals derives palawan_<section>_regular_total for every partner section
// from its principal, service charge and commission amounts.
func PartnerTotals(amounts map[string]decimal.Decimal) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(catalog.PartnerSections))
	for _, section := range catalog.PartnerSections {
		total := decimal.Zero
		for _, part := range catalog.PartnerParts {
			total = total.Add(amounts[catalog.PartnerCode(section, part)])
		}
		totals[catalog.PartnerCode(section, "regular_total")] = total
	}
	return totals
}
