package calculator

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
)

const (
	alice   = "0xa11ce00000000000000000000000000000000001"
	bob     = "0xb0b0000000000000000000000000000000000002"
	charlie = "0xc4a2000000000000000000000000000000000003"
)

func usdc(s string) money.Amount { return money.MustParse(s) }

func active(amount, paidBy string) ExpenseForBalance {
	return ExpenseForBalance{Amount: usdc(amount), PaidBy: paidBy, Status: models.ExpenseActive}
}

func completed(amount, from, to string) PaymentForBalance {
	return PaymentForBalance{Amount: usdc(amount), From: from, To: to, Status: models.PaymentCompleted}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		participants []string
		expenses     []ExpenseForBalance
		payments     []PaymentForBalance
		want         Balances
	}{
		{
			name:         "two people, one pays",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{active("100", alice)},
			want:         Balances{alice: usdc("50"), bob: usdc("-50")},
		},
		{
			name:         "three people, one pays",
			participants: []string{alice, bob, charlie},
			expenses:     []ExpenseForBalance{active("90", alice)},
			want:         Balances{alice: usdc("60"), bob: usdc("-30"), charlie: usdc("-30")},
		},
		{
			name:         "completed payment settles the debt",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{active("100", alice)},
			payments:     []PaymentForBalance{completed("50", bob, alice)},
			want:         Balances{alice: 0, bob: 0},
		},
		{
			name:         "cancelled expense is ignored",
			participants: []string{alice, bob},
			expenses: []ExpenseForBalance{
				active("100", alice),
				{Amount: usdc("400"), PaidBy: bob, Status: models.ExpenseCancelled},
			},
			want: Balances{alice: usdc("50"), bob: usdc("-50")},
		},
		{
			name:         "non-completed payments are ignored",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{active("100", alice)},
			payments: []PaymentForBalance{
				{Amount: usdc("50"), From: bob, To: alice, Status: models.PaymentPending},
				{Amount: usdc("50"), From: bob, To: alice, Status: models.PaymentDisputed},
				{Amount: usdc("50"), From: bob, To: alice, Status: models.PaymentCancelled},
			},
			want: Balances{alice: usdc("50"), bob: usdc("-50")},
		},
		{
			name:         "everyone settled up stays present at zero",
			participants: []string{alice, bob, charlie},
			expenses:     []ExpenseForBalance{active("30", alice)},
			payments:     []PaymentForBalance{completed("10", bob, alice), completed("10", charlie, alice)},
			want:         Balances{alice: 0, bob: 0, charlie: 0},
		},
		{
			name:         "addresses compare case-insensitively",
			participants: []string{"0xA11CE00000000000000000000000000000000001", bob},
			expenses:     []ExpenseForBalance{active("10", alice)},
			payments:     []PaymentForBalance{completed("2", "0xB0B0000000000000000000000000000000000002", alice)},
			want:         Balances{alice: usdc("3"), bob: usdc("-3")},
		},
		{
			name:         "remainder goes to the first participant",
			participants: []string{alice, bob, charlie},
			expenses:     []ExpenseForBalance{active("100", bob)},
			// shares 33.333334 / 33.333333 / 33.333333
			want: Balances{alice: usdc("-33.333334"), bob: usdc("66.666667"), charlie: usdc("-33.333333")},
		},
		{
			name:         "single participant never owes",
			participants: []string{alice},
			expenses:     []ExpenseForBalance{active("12.5", alice), active("7", alice)},
			want:         Balances{alice: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.participants, tt.expenses, tt.payments)
			if err != nil {
				t.Fatalf("ComputeBalances() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeBalances() mismatch (-want +got):\n%s", diff)
			}
			if sum := got.Sum(); sum != 0 {
				t.Errorf("balances sum to %s, want 0", sum)
			}
		})
	}
}

func TestComputeBalances_InvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		participants []string
		expenses     []ExpenseForBalance
		payments     []PaymentForBalance
	}{
		{name: "no participants", participants: nil},
		{name: "empty participant", participants: []string{alice, " "}},
		{name: "duplicate participant", participants: []string{alice, "0xA11CE00000000000000000000000000000000001"}},
		{
			name:         "zero expense",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{{Amount: 0, PaidBy: alice, Status: models.ExpenseActive}},
		},
		{
			name:         "negative expense",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{{Amount: -5, PaidBy: alice, Status: models.ExpenseActive}},
		},
		{
			name:         "payer outside the group",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{active("10", charlie)},
		},
		{
			name:         "unknown expense status",
			participants: []string{alice, bob},
			expenses:     []ExpenseForBalance{{Amount: usdc("10"), PaidBy: alice, Status: "deleted"}},
		},
		{
			name:         "negative payment",
			participants: []string{alice, bob},
			payments:     []PaymentForBalance{{Amount: -1, From: bob, To: alice, Status: models.PaymentCompleted}},
		},
		{
			name:         "payment receiver outside the group",
			participants: []string{alice, bob},
			payments:     []PaymentForBalance{completed("5", bob, charlie)},
		},
		{
			name:         "payment sender outside the group",
			participants: []string{alice, bob},
			payments:     []PaymentForBalance{completed("5", charlie, alice)},
		},
		{
			name:         "unknown payment status",
			participants: []string{alice, bob},
			payments:     []PaymentForBalance{{Amount: usdc("5"), From: bob, To: alice, Status: "refunded"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeBalances(tt.participants, tt.expenses, tt.payments)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ComputeBalances() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestComputeBalances_SkippedRecordsAreNotValidated(t *testing.T) {
	// A cancelled expense behaves as if it never existed, even when malformed.
	got, err := ComputeBalances(
		[]string{alice, bob},
		[]ExpenseForBalance{{Amount: -1, PaidBy: charlie, Status: models.ExpenseCancelled}},
		[]PaymentForBalance{{Amount: 0, From: charlie, To: alice, Status: models.PaymentPending}},
	)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if diff := cmp.Diff(Balances{alice: 0, bob: 0}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateMemberBalances_Breakdown(t *testing.T) {
	members, err := CalculateMemberBalances(
		[]string{alice, bob, charlie},
		[]ExpenseForBalance{active("90", alice), active("30", bob)},
		[]PaymentForBalance{completed("20", charlie, alice)},
	)
	if err != nil {
		t.Fatalf("CalculateMemberBalances() error = %v", err)
	}

	want := []MemberBalance{
		{Address: alice, TotalPaid: usdc("90"), TotalShare: usdc("40"), PaymentsReceived: usdc("20"), NetBalance: usdc("30")},
		{Address: bob, TotalPaid: usdc("30"), TotalShare: usdc("40"), NetBalance: usdc("-10")},
		{Address: charlie, TotalShare: usdc("40"), PaymentsSent: usdc("20"), NetBalance: usdc("-20")},
	}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Errorf("CalculateMemberBalances() mismatch (-want +got):\n%s", diff)
	}
}

// randomGroup builds a reproducible group with many small expenses and payments.
func randomGroup(r *rand.Rand) ([]string, []ExpenseForBalance, []PaymentForBalance) {
	n := 1 + r.Intn(12)
	participants := make([]string, n)
	for i := range participants {
		participants[i] = fmt.Sprintf("0x%040x", r.Int63())
	}

	expenses := make([]ExpenseForBalance, r.Intn(40))
	for i := range expenses {
		status := models.ExpenseActive
		if r.Intn(5) == 0 {
			status = models.ExpenseCancelled
		}
		expenses[i] = ExpenseForBalance{
			Amount: money.Amount(1 + r.Int63n(int64(500*money.One))),
			PaidBy: participants[r.Intn(n)],
			Status: status,
		}
	}

	statuses := []models.PaymentStatus{models.PaymentCompleted, models.PaymentPending, models.PaymentDisputed, models.PaymentCancelled}
	payments := make([]PaymentForBalance, r.Intn(15))
	for i := range payments {
		payments[i] = PaymentForBalance{
			Amount: money.Amount(1 + r.Int63n(int64(100*money.One))),
			From:   participants[r.Intn(n)],
			To:     participants[r.Intn(n)],
			Status: statuses[r.Intn(len(statuses))],
		}
	}
	return participants, expenses, payments
}

func TestComputeBalances_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(20240601))

	for iter := 0; iter < 500; iter++ {
		participants, expenses, payments := randomGroup(r)

		first, err := ComputeBalances(participants, expenses, payments)
		if err != nil {
			t.Fatalf("iteration %d: ComputeBalances() error = %v", iter, err)
		}

		if sum := first.Sum(); sum != 0 {
			t.Fatalf("iteration %d: balances sum to %s, want 0", iter, sum)
		}
		if len(first) != len(participants) {
			t.Fatalf("iteration %d: got %d balances for %d participants", iter, len(first), len(participants))
		}

		second, err := ComputeBalances(participants, expenses, payments)
		if err != nil {
			t.Fatalf("iteration %d: second ComputeBalances() error = %v", iter, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("iteration %d: not idempotent (-first +second):\n%s", iter, diff)
		}
	}
}
