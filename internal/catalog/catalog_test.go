package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert.Len(t, c.Codes(KindDebit), 23)
	assert.Len(t, c.Codes(KindCredit), 21)
	assert.Len(t, c.Codes(KindPartner), len(PartnerSections)*(len(PartnerParts)+1))

	cat, ok := c.Lookup("rescate_jewelry")
	require.True(t, ok)
	assert.Equal(t, KindDebit, cat.Kind)
	assert.Equal(t, "Rescate Jewelry", cat.Label)

	cat, ok = c.Lookup("others")
	require.True(t, ok)
	assert.Equal(t, KindCredit, cat.Kind)

	cat, ok = c.Lookup(PartnerCode("payout", "commission"))
	require.True(t, ok)
	assert.Equal(t, KindPartner, cat.Kind)

	_, ok = c.Lookup("beginning_balance")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		wantErr    string
	}{
		{
			name:       "valid",
			categories: []Category{{Code: "sales", Kind: KindDebit}, {Code: "rent", Kind: KindCredit}},
		},
		{
			name:       "empty",
			categories: nil,
			wantErr:    "no categories",
		},
		{
			name:       "bad code",
			categories: []Category{{Code: "Sales Total", Kind: KindDebit}},
			wantErr:    "invalid code",
		},
		{
			name:       "unknown kind",
			categories: []Category{{Code: "sales", Kind: "asset"}},
			wantErr:    "unknown kind",
		},
		{
			name:       "duplicate",
			categories: []Category{{Code: "sales", Kind: KindDebit}, {Code: "sales", Kind: KindCredit}},
			wantErr:    "duplicate code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.categories)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, c.All(), len(tt.categories))
		})
	}
}

func TestNew_LabelDefaultsToCode(t *testing.T) {
	c, err := New([]Category{{Code: "sales", Kind: KindDebit}})
	require.NoError(t, err)

	cat, _ := c.Lookup("sales")
	assert.Equal(t, "sales", cat.Label)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	data := `categories:
  - code: sales
    label: Sales
    kind: debit
  - code: payroll
    kind: credit
  - code: partner_fee
    kind: partner
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales"}, c.Codes(KindDebit))
	assert.Equal(t, []string{"payroll"}, c.Codes(KindCredit))
	assert.Equal(t, []string{"partner_fee"}, c.Codes(KindPartner))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	out, err := Default().Marshal()
	require.NoError(t, err)

	c, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), c.All())
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Code = "changed"

	assert.NotEqual(t, "changed", c.All()[0].Code)
}
