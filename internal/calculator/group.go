package calculator

import (
	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
)

// GroupBalances is the full derived state of a group.
type GroupBalances struct {
	Members    []MemberBalance // In participant order
	Debts      []DebtEdge
	TotalSpent money.Amount // Sum of active expenses
}

// Balances returns the members' net balances as a map.
func (g *GroupBalances) Balances() Balances {
	b := make(Balances, len(g.Members))
	for _, m := range g.Members {
		b[m.Address] = m.NetBalance
	}
	return b
}

// CalculateGroupBalances computes member balances and the settlement for a
// snapshot. The snapshot is only read.
func CalculateGroupBalances(snapshot *models.GroupSnapshot) (*GroupBalances, error) {
	expenses := make([]ExpenseForBalance, len(snapshot.Expenses))
	for i, e := range snapshot.Expenses {
		expenses[i] = ExpenseForBalance{Amount: e.Amount, PaidBy: e.PaidBy, Status: e.Status}
	}
	payments := make([]PaymentForBalance, len(snapshot.Payments))
	for i, p := range snapshot.Payments {
		payments[i] = PaymentForBalance{Amount: p.Amount, From: p.From, To: p.To, Status: p.Status}
	}

	members, err := CalculateMemberBalances(snapshot.Group.Participants, expenses, payments)
	if err != nil {
		return nil, err
	}

	result := &GroupBalances{Members: members, TotalSpent: snapshot.TotalSpent()}
	debts, err := Settle(result.Balances())
	if err != nil {
		return nil, err
	}
	result.Debts = debts
	return result, nil
}
