package catalog

// Default returns the standard branch catalog used when no catalog file is configured.
func Default() *Catalog {
	var categories []Category
	for _, d := range defaultDebits {
		categories = append(categories, Category{Code: d[0], Label: d[1], Kind: KindDebit})
	}
	for _, d := range defaultCredits {
		categories = append(categories, Category{Code: d[0], Label: d[1], Kind: KindCredit})
	}
	for _, section := range PartnerSections {
		for _, part := range PartnerParts {
			categories = append(categories, Category{
				Code:  PartnerCode(section, part),
				Label: "Palawan " + section + " " + part,
				Kind:  KindPartner,
			})
		}
		categories = append(categories, Category{
			Code:  PartnerCode(section, "lotes_total"),
			Label: "Lotes " + section,
			Kind:  KindPartner,
		})
	}

	c, err := New(categories)
	if err != nil {
		panic("catalog: invalid default catalog: " + err.Error())
	}
	return c
}

// PartnerSections are the remittance partner transaction groups.
var PartnerSections = []string{"sendout", "payout", "international"}

// PartnerParts are the operator-entered components of each partner section.
var PartnerParts = []string{"principal", "sc", "commission"}

// PartnerCode names a partner sub-ledger column.
func PartnerCode(section, part string) string {
	return "palawan_" + section + "_" + part
}

var defaultDebits = [][2]string{
	{"rescate_jewelry", "Rescate Jewelry"},
	{"interest", "Interest"},
	{"penalty", "Penalty"},
	{"stamp", "Stamp"},
	{"resguardo_affidavit", "Resguardo/Affidavit"},
	{"habol_renew_tubos", "HABOL Renew/Tubos"},
	{"habol_rt_interest_stamp", "Habol R/T Interest&Stamp"},
	{"jew_ai", "Jew. A.I"},
	{"sc", "S.C"},
	{"fund_transfer_from_branch", "Fund Transfer from BRANCH"},
	{"sendah_load_sc", "Sendah Load + SC"},
	{"ppay_co_sc", "PPAY CO SC"},
	{"palawan_send_out", "Palawan Send Out"},
	{"palawan_sc", "Palawan S.C"},
	{"palawan_suki_card", "Palawan Suki Card"},
	{"palawan_pay_cash_in_sc", "Palawan Pay Cash-In + SC"},
	{"palawan_pay_bills_sc", "Palawan Pay Bills + SC"},
	{"palawan_load", "Palawan Load"},
	{"palawan_change_receiver", "Palawan Change Receiver"},
	{"mc_in", "MC In"},
	{"handling_fee", "Handling fee"},
	{"other_penalty", "Other Penalty"},
	{"cash_shortage_overage", "Cash Shortage/Overage"},
}

var defaultCredits = [][2]string{
	{"empeno_jew_new", "Empeno JEW. (NEW)"},
	{"empeno_jew_renew", "Empeno JEW (RENEW)"},
	{"fund_transfer_to_head_office", "Fund Transfer to HEAD OFFICE"},
	{"fund_transfer_to_branch", "Fund Transfer to BRANCH"},
	{"palawan_pay_out", "Palawan Pay Out"},
	{"palawan_pay_out_incentives", "Palawan Pay Out (incentives)"},
	{"palawan_pay_cash_out", "Palawan Pay Cash Out"},
	{"mc_out", "MC Out"},
	{"pc_salary", "PC-Salary"},
	{"pc_rental", "PC-Rental"},
	{"pc_electric", "PC-Electric"},
	{"pc_water", "PC-Water"},
	{"pc_internet", "PC-Internet"},
	{"pc_lbc_jrs_jnt", "PC-Lbc/Jrs/Jnt"},
	{"pc_permits_bir_payments", "PC-Permits/BIR Payments"},
	{"pc_supplies_xerox_maintenance", "PC-Supplies/Xerox/Maintenance"},
	{"pc_transpo", "PC-Transpo"},
	{"palawan_cancel", "Palawan Cancel"},
	{"palawan_suki_discounts", "Palawan Suki Discounts"},
	{"palawan_suki_rebates", "Palawan Suki Rebates"},
	{"others", "OTHERS"},
}
