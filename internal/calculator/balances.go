package calculator

import (
	"fmt"

	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
	"github.com/mmynk/splitpay/internal/wallet"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	Amount money.Amount
	PaidBy string
	Status models.ExpenseStatus
}

// PaymentForBalance represents a payment with the minimal information needed for balance calculations.
type PaymentForBalance struct {
	Amount money.Amount
	From   string // Who paid (debtor settling up)
	To     string // Who received (creditor being paid)
	Status models.PaymentStatus
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	Address          string
	NetBalance       money.Amount // Positive = owed money, Negative = owes money
	TotalPaid        money.Amount // Total fronted on active expenses
	TotalShare       money.Amount // This member's share of all active expenses
	PaymentsSent     money.Amount // Completed payments made to others
	PaymentsReceived money.Amount // Completed payments received from others
}

// Balances maps a normalized address to its signed net balance.
type Balances map[string]money.Amount

// Sum adds every balance. It is zero for any well-formed group.
func (b Balances) Sum() money.Amount {
	var total money.Amount
	for _, v := range b {
		total += v
	}
	return total
}

// Of returns the balance of address, comparing case-insensitively.
func (b Balances) Of(address string) money.Amount {
	return b[wallet.Normalize(address)]
}

// ComputeBalances folds active expenses and completed payments into a
// signed balance per participant. Every participant is present in the
// result, including those with no activity.
//
// For an expense of amount A split into shares s_i, the payer gains A - s_payer
// and every other participant loses s_i. For a completed payment the sender
// gains the amount and the receiver loses it. Both rules net to zero.
func ComputeBalances(participants []string, expenses []ExpenseForBalance, payments []PaymentForBalance) (Balances, error) {
	members, err := aggregate(participants, expenses, payments)
	if err != nil {
		return nil, err
	}
	balances := make(Balances, len(members))
	for _, m := range members {
		balances[m.Address] = m.NetBalance
	}
	return balances, nil
}

// CalculateMemberBalances is ComputeBalances with the per-member breakdown,
// returned in participant order.
func CalculateMemberBalances(participants []string, expenses []ExpenseForBalance, payments []PaymentForBalance) ([]MemberBalance, error) {
	return aggregate(participants, expenses, payments)
}

func aggregate(participants []string, expenses []ExpenseForBalance, payments []PaymentForBalance) ([]MemberBalance, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}

	members := make([]MemberBalance, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		addr := wallet.Normalize(p)
		if addr == "" {
			return nil, fmt.Errorf("%w: empty participant address at position %d", ErrInvalidInput, i)
		}
		if _, dup := index[addr]; dup {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrInvalidInput, addr)
		}
		index[addr] = i
		members[i] = MemberBalance{Address: addr}
	}

	lookup := func(role, address string) (int, error) {
		i, ok := index[wallet.Normalize(address)]
		if !ok {
			return 0, fmt.Errorf("%w: %s %q is not a participant", ErrInvalidInput, role, address)
		}
		return i, nil
	}

	for n, e := range expenses {
		switch e.Status {
		case models.ExpenseActive:
		case models.ExpenseCancelled:
			continue
		default:
			return nil, fmt.Errorf("%w: expense %d has unknown status %q", ErrInvalidInput, n, e.Status)
		}
		if !e.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: expense %d amount must be positive, got %s", ErrInvalidInput, n, e.Amount)
		}
		payer, err := lookup("payer", e.PaidBy)
		if err != nil {
			return nil, err
		}

		shares, err := SplitEvenly(e.Amount, len(members))
		if err != nil {
			return nil, err
		}

		members[payer].TotalPaid += e.Amount
		for i, share := range shares {
			members[i].TotalShare += share
		}
	}

	for n, p := range payments {
		switch p.Status {
		case models.PaymentCompleted:
		case models.PaymentPending, models.PaymentDisputed, models.PaymentCancelled:
			continue
		default:
			return nil, fmt.Errorf("%w: payment %d has unknown status %q", ErrInvalidInput, n, p.Status)
		}
		if !p.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: payment %d amount must be positive, got %s", ErrInvalidInput, n, p.Amount)
		}
		from, err := lookup("sender", p.From)
		if err != nil {
			return nil, err
		}
		to, err := lookup("receiver", p.To)
		if err != nil {
			return nil, err
		}

		// Sender's balance improves, receiver's decreases
		members[from].PaymentsSent += p.Amount
		members[to].PaymentsReceived += p.Amount
	}

	var sum money.Amount
	for i := range members {
		m := &members[i]
		m.NetBalance = m.TotalPaid - m.TotalShare + m.PaymentsSent - m.PaymentsReceived
		sum += m.NetBalance
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: residual %s", ErrUnbalanced, sum)
	}

	return members, nil
}
