package calculator

import (
	"github.com/mmynk/splitpay/internal/money"
	"github.com/mmynk/splitpay/internal/wallet"
)

// ViewerSummary is the "I owe / I'm owed" view of a settlement for one address.
type ViewerSummary struct {
	Viewer string
	Owes   money.Amount // Sum of debts where the viewer is the debtor
	IsOwed money.Amount // Sum of debts where the viewer is the creditor
}

// Net is positive when the viewer is owed more than they owe.
func (v ViewerSummary) Net() money.Amount {
	return v.IsOwed - v.Owes
}

// Project sums the debts the viewer pays and receives. Both sides are summed
// independently, so a viewer appearing on both sides gets both populated.
func Project(debts []DebtEdge, viewer string) ViewerSummary {
	v := wallet.Normalize(viewer)
	summary := ViewerSummary{Viewer: v}
	for _, d := range debts {
		if wallet.Normalize(d.From) == v {
			summary.Owes += d.Amount
		}
		if wallet.Normalize(d.To) == v {
			summary.IsOwed += d.Amount
		}
	}
	return summary
}
