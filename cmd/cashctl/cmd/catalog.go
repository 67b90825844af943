package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/config"
)

var catalogKind string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the category catalog",
	Long: `Print the active category catalog as YAML, the same layout
LEDGER_CATEGORY_FILE accepts. With --kind only that kind's codes are listed.

Example:
  cashctl catalog > categories.yaml
  cashctl catalog --kind debit`,
	Run: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogKind, "kind", "", "list only codes of this kind (debit, credit, partner)")
}

func runCatalog(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	cat := catalog.Default()
	if cfg.CategoryFile != "" {
		cat, err = catalog.Load(cfg.CategoryFile)
		exitOnError(err, "failed to load category catalog")
	}

	if catalogKind != "" {
		for _, code := range cat.Codes(catalog.Kind(catalogKind)) {
			fmt.Println(code)
		}
		return
	}

	out, err := cat.Marshal()
	exitOnError(err, "failed to render catalog")
	_, _ = os.Stdout.Write(out)
}
