package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/splitpay/internal/money"
)

// Epsilon is the largest balance treated as settled. Debts at or below it
// are never emitted.
const Epsilon = money.Cent

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount money.Amount
}

type position struct {
	address   string
	remaining money.Amount
}

// sortPositions orders by descending amount, then ascending address, so the
// result does not depend on map iteration order.
func sortPositions(ps []position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].remaining != ps[j].remaining {
			return ps[i].remaining > ps[j].remaining
		}
		return ps[i].address < ps[j].address
	})
}

// Settle turns net balances into a list of directed debts that brings every
// balance back to within Epsilon of zero.
//
// Algorithm (greedy two-cursor matching):
//   - creditors: balance > Epsilon; debtors: balance < -Epsilon
//   - both sides sorted by descending amount, then ascending address
//   - match the current debtor with the current creditor for the smaller of
//     the two remainders, advance whichever side is settled
//
// The result has at most len(creditors)+len(debtors)-1 entries. Once one
// side runs out, anything left beyond Epsilon per participant means the
// input did not net to zero and is reported as ErrUnbalanced.
func Settle(balances Balances) ([]DebtEdge, error) {
	var creditors, debtors []position
	for addr, bal := range balances {
		if bal > Epsilon {
			creditors = append(creditors, position{address: addr, remaining: bal})
		} else if bal < -Epsilon {
			debtors = append(debtors, position{address: addr, remaining: -bal})
		}
	}
	sortPositions(creditors)
	sortPositions(debtors)

	debts := make([]DebtEdge, 0, len(creditors)+len(debtors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}

		if amount > Epsilon {
			debts = append(debts, DebtEdge{
				From:   debtor.address,
				To:     creditor.address,
				Amount: amount,
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		if debtor.remaining <= Epsilon {
			i++
		}
		if creditor.remaining <= Epsilon {
			j++
		}
	}

	var leftover money.Amount
	for _, d := range debtors[i:] {
		leftover += d.remaining
	}
	for _, c := range creditors[j:] {
		leftover += c.remaining
	}
	if tolerance := Epsilon * money.Amount(len(balances)); leftover > tolerance {
		return nil, fmt.Errorf("%w: %s left unsettled", ErrUnbalanced, leftover)
	}

	return debts, nil
}
