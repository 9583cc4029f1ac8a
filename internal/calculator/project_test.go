package calculator

import (
	"strings"
	"testing"

	"github.com/mmynk/splitpay/internal/money"
)

func TestProject(t *testing.T) {
	const (
		x = "0x1000000000000000000000000000000000000000"
		y = "0x2000000000000000000000000000000000000000"
		z = "0x3000000000000000000000000000000000000000"
	)
	debts := []DebtEdge{
		{From: x, To: y, Amount: usdc("10")},
		{From: z, To: x, Amount: usdc("4")},
	}

	tests := []struct {
		name       string
		viewer     string
		wantOwes   money.Amount
		wantIsOwed money.Amount
	}{
		{name: "viewer on both sides", viewer: x, wantOwes: usdc("10"), wantIsOwed: usdc("4")},
		{name: "pure creditor", viewer: y, wantIsOwed: usdc("10")},
		{name: "pure debtor", viewer: z, wantOwes: usdc("4")},
		{name: "stranger", viewer: "0x4000000000000000000000000000000000000000"},
		{name: "case-insensitive viewer", viewer: strings.ToUpper(x), wantOwes: usdc("10"), wantIsOwed: usdc("4")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(debts, tt.viewer)
			if got.Owes != tt.wantOwes {
				t.Errorf("Owes = %s, want %s", got.Owes, tt.wantOwes)
			}
			if got.IsOwed != tt.wantIsOwed {
				t.Errorf("IsOwed = %s, want %s", got.IsOwed, tt.wantIsOwed)
			}
			if got.Net() != tt.wantIsOwed-tt.wantOwes {
				t.Errorf("Net = %s", got.Net())
			}
		})
	}
}
