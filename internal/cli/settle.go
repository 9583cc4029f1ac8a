package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/splitpay/internal/calculator"
	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
	"github.com/mmynk/splitpay/internal/wallet"
)

// snapshotFile is the input of 'splitpay settle'. A missing status means
// active for expenses and completed for payments.
type snapshotFile struct {
	Participants []string `json:"participants"`
	Expenses     []struct {
		Amount money.Amount `json:"amount"`
		PaidBy string       `json:"paidBy"`
		Status string       `json:"status"`
	} `json:"expenses"`
	Payments []struct {
		Amount money.Amount `json:"amount"`
		From   string       `json:"from"`
		To     string       `json:"to"`
		Status string       `json:"status"`
	} `json:"payments"`
}

// settlement is the JSON output of 'splitpay settle --json'.
type settlement struct {
	Balances   map[string]money.Amount `json:"balances"`
	Debts      []debt                  `json:"debts"`
	Viewer     *viewerSummary          `json:"viewer,omitempty"`
	TotalSpent money.Amount            `json:"totalSpent"`
}

type debt struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount money.Amount `json:"amount"`
}

type viewerSummary struct {
	Viewer string       `json:"viewer"`
	Owes   money.Amount `json:"owes"`
	IsOwed money.Amount `json:"isOwed"`
}

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle --file snapshot.json",
		Short: "Compute balances and debts from a JSON snapshot",
		Long: `Compute member balances, the settlement and an optional viewer summary
offline. The snapshot lists participants in join order, expenses with
amount, paidBy and status, and payments with amount, from, to and status.
Use '-' as the file to read standard input.`,
		Args: cobra.NoArgs,
		RunE: runSettle,
	}
	cmd.Flags().StringP("file", "f", "", "Snapshot file, or - for stdin")
	cmd.Flags().String("viewer", "", "Address to summarize the settlement for")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSettle(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	viewer, _ := cmd.Flags().GetString("viewer")
	asJSON, _ := cmd.Flags().GetBool("json")

	snapshot, err := readSnapshot(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}

	result, err := calculator.CalculateGroupBalances(snapshot)
	if err != nil {
		return fmt.Errorf("settle: %w", err)
	}

	out := settlement{
		Balances:   result.Balances(),
		Debts:      make([]debt, len(result.Debts)),
		TotalSpent: result.TotalSpent,
	}
	for i, d := range result.Debts {
		out.Debts[i] = debt{From: d.From, To: d.To, Amount: d.Amount}
	}
	if viewer != "" {
		address, err := wallet.Parse(viewer)
		if err != nil {
			return err
		}
		summary := calculator.Project(result.Debts, address)
		out.Viewer = &viewerSummary{Viewer: summary.Viewer, Owes: summary.Owes, IsOwed: summary.IsOwed}
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	return printSettlement(cmd.OutOrStdout(), result, out.Viewer)
}

func readSnapshot(stdin io.Reader, path string) (*models.GroupSnapshot, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var in snapshotFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	snapshot := &models.GroupSnapshot{Group: models.Group{Participants: in.Participants}}
	for _, e := range in.Expenses {
		status := models.ExpenseStatus(e.Status)
		if status == "" {
			status = models.ExpenseActive
		}
		snapshot.Expenses = append(snapshot.Expenses, models.Expense{Amount: e.Amount, PaidBy: e.PaidBy, Status: status})
	}
	for _, p := range in.Payments {
		status := models.PaymentStatus(p.Status)
		if status == "" {
			status = models.PaymentCompleted
		}
		snapshot.Payments = append(snapshot.Payments, models.Payment{Amount: p.Amount, From: p.From, To: p.To, Status: status})
	}
	return snapshot, nil
}

func printSettlement(w io.Writer, result *calculator.GroupBalances, viewer *viewerSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PARTICIPANT\tPAID\tSHARE\tNET")
	for _, m := range result.Members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Address, m.TotalPaid.Display(), m.TotalShare.Display(), m.NetBalance.Display())
	}
	fmt.Fprintln(tw)

	if len(result.Debts) == 0 {
		fmt.Fprintln(tw, "Everyone is settled up.")
	} else {
		fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
		for _, d := range result.Debts {
			fmt.Fprintf(tw, "%s\t%s\t%s %s\n", wallet.Short(d.From), wallet.Short(d.To), d.Amount.Display(), money.Currency)
		}
	}

	if viewer != nil {
		fmt.Fprintf(tw, "\n%s owes %s and is owed %s %s\n",
			wallet.Short(viewer.Viewer), viewer.Owes.Display(), viewer.IsOwed.Display(), money.Currency)
	}
	return tw.Flush()
}
