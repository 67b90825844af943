package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

// DaySheet is one branch day as typed into a YAML file.
type DaySheet struct {
	Corporation      string            `yaml:"corporation"`
	Branch           string            `yaml:"branch"`
	Teller           string            `yaml:"teller"`
	Date             string            `yaml:"date"`
	LoadPrevious     bool              `yaml:"load_previous"`
	BeginningBalance string            `yaml:"beginning_balance"`
	Amounts          map[string]string `yaml:"amounts"`
	CashCount        string            `yaml:"cash_count"`
	Exchange         []ExchangeRow     `yaml:"exchange"`
}

// ExchangeRow is one currency purchase line of a day sheet.
type ExchangeRow struct {
	Currency string `yaml:"currency"`
	Quantity int64  `yaml:"quantity"`
	Rate     string `yaml:"rate"`
}

// ParseDaySheet decodes and checks the identifying fields of a day sheet.
func ParseDaySheet(data []byte) (*DaySheet, error) {
	var sheet DaySheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("failed to parse day sheet: %w", err)
	}

	var missing []string
	if sheet.Corporation == "" {
		missing = append(missing, "corporation")
	}
	if sheet.Branch == "" {
		missing = append(missing, "branch")
	}
	if sheet.Date == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("day sheet is missing %s", strings.Join(missing, ", "))
	}
	if _, err := models.ParseDate(sheet.Date); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// LoadDaySheet reads a day sheet file.
func LoadDaySheet(path string) (*DaySheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read day sheet: %w", err)
	}
	return ParseDaySheet(data)
}

// Apply replays the sheet into a fresh session in the order an operator would:
// date, previous balance, beginning balance, categories, cash count, exchange lines.
// It stops at the first rejected edit.
func (d *DaySheet) Apply(ctx context.Context, l *ledger.Ledger) (*ledger.Session, error) {
	date, err := models.ParseDate(d.Date)
	if err != nil {
		return nil, err
	}

	s := l.NewSession(d.Corporation, d.Branch, d.Teller)
	s.OnDateSelected(ctx, date)

	if d.LoadPrevious {
		if _, err := s.LoadPreviousBalance(); err != nil {
			return s, err
		}
	}
	if d.BeginningBalance != "" {
		if _, err := s.OnFieldChanged(ledger.FieldBeginningBalance, d.BeginningBalance); err != nil {
			return s, err
		}
	}

	codes := make([]string, 0, len(d.Amounts))
	for code := range d.Amounts {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, err := s.OnFieldChanged(code, d.Amounts[code]); err != nil {
			return s, err
		}
	}

	if d.CashCount != "" {
		if _, err := s.OnFieldChanged(ledger.FieldCashCount, d.CashCount); err != nil {
			return s, err
		}
	}

	if len(d.Exchange) > 0 {
		lines := make([]models.ExchangeLine, 0, len(d.Exchange))
		for i, row := range d.Exchange {
			rate, err := decimal.NewFromString(strings.ReplaceAll(row.Rate, ",", ""))
			if err != nil {
				return s, fmt.Errorf("%w: exchange line %d: rate %q", ledger.ErrInvalidNumericInput, i+1, row.Rate)
			}
			lines = append(lines, models.ExchangeLine{Currency: row.Currency, Quantity: row.Quantity, Rate: rate})
		}
		if _, err := s.SetExchangeLines(lines); err != nil {
			return s, err
		}
	}
	return s, nil
}
