package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

var (
	auditCorporation string
	auditBranch      string
	auditFrom        string
	auditTo          string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check a branch's posted reports for balance and continuity breaks",
	Long: `Walk a branch's stored reports in date order and report every day whose
ending balance, cash result or beginning balance does not add up.

Exits with status 2 when findings are reported.

Example:
  cashctl audit --corporation acme --branch main --from 2024-03-01 --to 2024-03-31`,
	Run: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditCorporation, "corporation", "", "corporation name (required)")
	auditCmd.Flags().StringVar(&auditBranch, "branch", "", "branch name (required)")
	auditCmd.Flags().StringVar(&auditFrom, "from", "", "first date YYYY-MM-DD (default 30 days before --to)")
	auditCmd.Flags().StringVar(&auditTo, "to", "", "last date YYYY-MM-DD (default today)")
	_ = auditCmd.MarkFlagRequired("corporation")
	_ = auditCmd.MarkFlagRequired("branch")
}

func runAudit(cmd *cobra.Command, args []string) {
	to := models.Day(time.Now())
	if auditTo != "" {
		t, err := models.ParseDate(auditTo)
		exitOnError(err, "invalid --to")
		to = t
	}
	from := to.AddDate(0, 0, -30)
	if auditFrom != "" {
		f, err := models.ParseDate(auditFrom)
		exitOnError(err, "invalid --from")
		from = f
	}

	a := openApp(cmd.Context())
	defer closeApp(a)

	entries, err := a.Ledger.Entries(cmd.Context(), auditCorporation, auditBranch, from, to)
	exitOnError(err, "failed to read reports")

	findings, err := a.Ledger.AuditBranch(cmd.Context(), auditCorporation, auditBranch, from, to)
	exitOnError(err, "failed to audit reports")

	fmt.Printf("\n=== Audit %s/%s %s..%s ===\n", auditCorporation, auditBranch,
		from.Format(models.DateLayout), to.Format(models.DateLayout))
	fmt.Printf("Reports checked: %d\n", len(entries))
	fmt.Printf("Findings:        %d\n", len(findings))
	for _, f := range findings {
		fmt.Printf("  [%s] %s\n", ledger.Code(f), f.Error())
	}
	fmt.Println()

	if len(findings) > 0 {
		closeApp(a)
		os.Exit(2)
	}
}
