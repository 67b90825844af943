package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
)

var postDryRun bool

var postCmd = &cobra.Command{
	Use:   "post <day-sheet.yaml>",
	Short: "Post one day's report from a YAML day sheet",
	Long: `Replay a YAML day sheet through date selection, field entry and the
final posting checks. Nothing is written unless every check passes.

Day sheet layout:
  corporation: acme
  branch: main
  teller: ana
  date: 2024-03-02
  load_previous: true
  amounts:
    rescate_jewelry: "1,500.00"
    empeno_jew_new: "700"
  cash_count: "10,800.00"
  exchange:
    - {currency: USD, quantity: 100, rate: "56.10"}

Example:
  cashctl post day.yaml
  cashctl post --dry-run day.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPost,
}

func init() {
	postCmd.Flags().BoolVar(&postDryRun, "dry-run", false, "evaluate the sheet without posting")
}

func runPost(cmd *cobra.Command, args []string) {
	sheet, err := LoadDaySheet(args[0])
	exitOnError(err, "invalid day sheet")

	a := openApp(cmd.Context())
	code, err := postSheet(cmd.Context(), a.Ledger, sheet, postDryRun)
	closeApp(a)

	exitOnError(err, "day sheet rejected")
	if code != 0 {
		os.Exit(code)
	}
}

// postSheet applies sheet and, unless dryRun, posts it. It returns exit code 2
// when the post is blocked and an error when the sheet cannot be applied.
func postSheet(ctx context.Context, l *ledger.Ledger, sheet *DaySheet, dryRun bool) (int, error) {
	s, err := sheet.Apply(ctx, l)
	if err != nil {
		return 1, err
	}

	printEvaluation(s, s.Evaluate())
	if dryRun {
		return 0, nil
	}

	res := s.AttemptPost(ctx)
	if !res.OK {
		fmt.Fprintf(os.Stderr, "Not posted [%s]: %v\n", ledger.Code(res.Err()), res.Err())
		return 2, nil
	}
	fmt.Printf("Posted %s as %s\n\n", s.State().Key, res.Entry.ID)
	return 0, nil
}

func printEvaluation(s *ledger.Session, ev ledger.Evaluation) {
	st := s.State()
	fmt.Printf("\n=== %s ===\n", st.Key)
	fmt.Printf("Mode:              %s\n", st.Mode)
	fmt.Printf("Beginning balance: %s\n", ledger.FormatMoney(st.Beginning.Value))
	fmt.Printf("Debit total:       %s\n", ledger.FormatMoney(ev.Totals.Debit))
	fmt.Printf("Credit total:      %s\n", ledger.FormatMoney(ev.Totals.Credit))
	fmt.Printf("Ending balance:    %s\n", ledger.FormatMoney(ev.Totals.Ending))
	fmt.Printf("Cash count:        %s\n", ledger.FormatMoney(st.CashCount.Value))
	fmt.Printf("Cash result:       %s (%s)\n", ledger.FormatMoney(ev.CashResult), ev.Variance)
	for _, b := range ev.Blockers {
		fmt.Printf("  blocked [%s]: %s\n", ledger.Code(b), b.Error())
	}
	fmt.Println()
}
