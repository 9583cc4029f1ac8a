package calculator

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/splitpay/internal/money"
)

// applyDebts pays every debt back onto a copy of balances.
func applyDebts(balances Balances, debts []DebtEdge) Balances {
	out := make(Balances, len(balances))
	for k, v := range balances {
		out[k] = v
	}
	for _, d := range debts {
		out[d.From] += d.Amount
		out[d.To] -= d.Amount
	}
	return out
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		balances Balances
		want     []DebtEdge
	}{
		{
			name:     "one debtor, one creditor",
			balances: Balances{alice: usdc("50"), bob: usdc("-50")},
			want:     []DebtEdge{{From: bob, To: alice, Amount: usdc("50")}},
		},
		{
			name:     "two debtors pay one creditor",
			balances: Balances{alice: usdc("60"), bob: usdc("-30"), charlie: usdc("-30")},
			want: []DebtEdge{
				{From: bob, To: alice, Amount: usdc("30")},
				{From: charlie, To: alice, Amount: usdc("30")},
			},
		},
		{
			name:     "largest debtor is matched with largest creditor first",
			balances: Balances{alice: usdc("10"), bob: usdc("40"), charlie: usdc("-50")},
			want: []DebtEdge{
				{From: charlie, To: bob, Amount: usdc("40")},
				{From: charlie, To: alice, Amount: usdc("10")},
			},
		},
		{
			name:     "all settled",
			balances: Balances{alice: 0, bob: 0},
			want:     []DebtEdge{},
		},
		{
			name:     "dust below epsilon is ignored",
			balances: Balances{alice: 5_000, bob: -5_000},
			want:     []DebtEdge{},
		},
		{
			name:     "empty input",
			balances: Balances{},
			want:     []DebtEdge{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Settle(tt.balances)
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Settle() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSettle_Unbalanced(t *testing.T) {
	_, err := Settle(Balances{alice: usdc("50"), bob: usdc("-20")})
	if !errors.Is(err, ErrUnbalanced) {
		t.Errorf("Settle() error = %v, want ErrUnbalanced", err)
	}
}

// With many participants a small expense leaves every debtor under Epsilon.
// Nothing is emitted and the payer's remainder stays within tolerance.
func TestSettle_SubCentDebtors(t *testing.T) {
	participants := make([]string, 101)
	for i := range participants {
		participants[i] = fmt.Sprintf("0x%040x", i+1)
	}
	payer := participants[0]

	balances, err := ComputeBalances(participants, []ExpenseForBalance{active("1", payer)}, nil)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if got, want := balances[payer], money.Amount(990_099); got != want {
		t.Errorf("payer balance = %s, want %s", got, want)
	}
	for _, p := range participants[1:] {
		if b := balances[p]; b >= 0 || b < -Epsilon {
			t.Fatalf("balance of %s = %s, want in [-%s, 0)", p, b, Epsilon)
		}
	}

	debts, err := Settle(balances)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if len(debts) != 0 {
		t.Errorf("Settle() = %v, want no debts", debts)
	}

	// With half the participants the tolerance no longer covers the remainder.
	trimmed := Balances{payer: balances[payer]}
	for _, p := range participants[1:50] {
		trimmed[p] = balances[p]
	}
	if _, err := Settle(trimmed); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("Settle() error = %v, want ErrUnbalanced", err)
	}
}

func TestSettle_Deterministic(t *testing.T) {
	// Equal amounts force the address tie-break.
	balances := Balances{
		charlie: usdc("-20"),
		alice:   usdc("20"),
		bob:     usdc("-20"),
		"0xd4e0000000000000000000000000000000000004": usdc("20"),
	}
	want := []DebtEdge{
		{From: bob, To: alice, Amount: usdc("20")},
		{From: charlie, To: "0xd4e0000000000000000000000000000000000004", Amount: usdc("20")},
	}
	for i := 0; i < 50; i++ {
		got, err := Settle(balances)
		if err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("run %d: Settle() mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSettle_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for iter := 0; iter < 500; iter++ {
		participants, expenses, payments := randomGroup(r)
		balances, err := ComputeBalances(participants, expenses, payments)
		if err != nil {
			t.Fatalf("iteration %d: ComputeBalances() error = %v", iter, err)
		}

		debts, err := Settle(balances)
		if err != nil {
			t.Fatalf("iteration %d: Settle() error = %v", iter, err)
		}

		var creditors, debtors int
		for _, b := range balances {
			if b > Epsilon {
				creditors++
			} else if b < -Epsilon {
				debtors++
			}
		}
		if limit := creditors + debtors - 1; len(debts) > 0 && len(debts) > limit {
			t.Errorf("iteration %d: %d debts exceeds bound %d", iter, len(debts), limit)
		}

		for _, d := range debts {
			if d.Amount <= Epsilon {
				t.Errorf("iteration %d: noise debt %+v", iter, d)
			}
			if d.From == d.To {
				t.Errorf("iteration %d: self debt %+v", iter, d)
			}
		}

		for addr, b := range applyDebts(balances, debts) {
			if b.Abs() > Epsilon {
				t.Errorf("iteration %d: %s left at %s after settlement", iter, addr, b)
			}
		}
	}
}

func TestSettle_SingleParticipant(t *testing.T) {
	balances, err := ComputeBalances([]string{alice}, []ExpenseForBalance{active("99.99", alice)}, nil)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	debts, err := Settle(balances)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if len(debts) != 0 {
		t.Errorf("expected no debts, got %v", debts)
	}
	if balances.Of(alice) != money.Amount(0) {
		t.Errorf("balance = %s, want 0", balances.Of(alice))
	}
}
