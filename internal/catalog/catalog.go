// Package catalog holds the business-defined list of cash report categories.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind tags how a category participates in the daily balance.
type Kind string

const (
	// KindDebit amounts increase the ending balance.
	KindDebit Kind = "debit"
	// KindCredit amounts decrease the ending balance.
	KindCredit Kind = "credit"
	// KindPartner amounts belong to the remittance partner sub-ledger and are stored only.
	KindPartner Kind = "partner"
)

// Category is one named line item on the daily report.
type Category struct {
	Code  string `yaml:"code" json:"code"`
	Label string `yaml:"label" json:"label"`
	Kind  Kind   `yaml:"kind" json:"kind"`
}

// File is the YAML layout of a catalog file.
type File struct {
	Categories []Category `yaml:"categories"`
}

var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Catalog is an immutable, validated set of categories.
type Catalog struct {
	categories []Category
	byCode     map[string]Category
}

// New validates categories and builds a catalog preserving their order.
func New(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		byCode:     make(map[string]Category, len(categories)),
	}

	for i, cat := range categories {
		if !codePattern.MatchString(cat.Code) {
			return nil, fmt.Errorf("category #%d: invalid code %q", i+1, cat.Code)
		}
		switch cat.Kind {
		case KindDebit, KindCredit, KindPartner:
		default:
			return nil, fmt.Errorf("category %q: unknown kind %q", cat.Code, cat.Kind)
		}
		if _, dup := c.byCode[cat.Code]; dup {
			return nil, fmt.Errorf("category %q: duplicate code", cat.Code)
		}
		if cat.Label == "" {
			cat.Label = cat.Code
		}
		c.byCode[cat.Code] = cat
		c.categories = append(c.categories, cat)
	}

	if len(c.categories) == 0 {
		return nil, fmt.Errorf("catalog has no categories")
	}
	return c, nil
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return New(f.Categories)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Lookup returns the category registered under code.
func (c *Catalog) Lookup(code string) (Category, bool) {
	cat, ok := c.byCode[code]
	return cat, ok
}

// All returns the categories in catalog order.
func (c *Catalog) All() []Category {
	return append([]Category(nil), c.categories...)
}

// Codes returns the sorted codes of the given kind.
func (c *Catalog) Codes(kind Kind) []string {
	var codes []string
	for _, cat := range c.categories {
		if cat.Kind == kind {
			codes = append(codes, cat.Code)
		}
	}
	sort.Strings(codes)
	return codes
}

// Marshal renders the catalog in its YAML file layout.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(File{Categories: c.All()})
}
