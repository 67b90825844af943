package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/models"
)

var (
	statusCorporation string
	statusBranch      string
	statusDate        string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what date selection finds for a branch and day",
	Long: `Run the duplicate check and the previous-day lookup for one date
without changing anything.

Example:
  cashctl status --corporation acme --branch main --date 2024-03-02`,
	Run: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusCorporation, "corporation", "", "corporation name (required)")
	statusCmd.Flags().StringVar(&statusBranch, "branch", "", "branch name (required)")
	statusCmd.Flags().StringVar(&statusDate, "date", "", "report date YYYY-MM-DD (required)")
	_ = statusCmd.MarkFlagRequired("corporation")
	_ = statusCmd.MarkFlagRequired("branch")
	_ = statusCmd.MarkFlagRequired("date")
}

func runStatus(cmd *cobra.Command, args []string) {
	date, err := models.ParseDate(statusDate)
	exitOnError(err, "invalid --date")

	a := openApp(cmd.Context())
	defer closeApp(a)

	s := a.Ledger.NewSession(statusCorporation, statusBranch, "")
	st := s.OnDateSelected(cmd.Context(), date)

	fmt.Printf("\n=== %s ===\n", st.Key)
	fmt.Printf("Mode:              %s\n", st.Mode)
	if st.Previous != nil {
		fmt.Printf("Previous report:   %s\n", st.Previous.Date.Format(models.DateLayout))
		fmt.Printf("Previous ending:   %s\n", ledger.FormatMoney(st.Previous.EndingBalance))
	} else {
		fmt.Printf("Previous report:   (none within lookback)\n")
	}
	if st.Fault != nil {
		fmt.Printf("Blocked:           %s\n", st.Fault.Error())
	}
	fmt.Println()
}
