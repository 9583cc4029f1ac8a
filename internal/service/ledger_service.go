package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/internal/metrics"
	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/internal/money"
	"github.com/mmynk/splitpay/internal/storage"
	"github.com/mmynk/splitpay/internal/wallet"
	"github.com/mmynk/splitpay/pkg/api"
)

// MaxExpense is the largest single expense accepted.
var MaxExpense = 10_000 * money.One

// LedgerService implements the Connect LedgerService: expenses and the
// payment lifecycle of a group.
type LedgerService struct {
	store    storage.Store
	verifier TxVerifier
	now      func() time.Time
}

// NewLedgerService creates a LedgerService. A nil verifier only checks the
// transaction hash format.
func NewLedgerService(store storage.Store, verifier TxVerifier) *LedgerService {
	if verifier == nil {
		verifier = FormatVerifier{}
	}
	return &LedgerService{store: store, verifier: verifier, now: time.Now}
}

// activeGroup loads a group the caller belongs to and that still accepts records.
func (s *LedgerService) activeGroup(ctx context.Context, groupID, caller string) (*models.Group, error) {
	group, err := groupForParticipant(ctx, s.store, groupID, caller)
	if err != nil {
		return nil, err
	}
	if group.Status != models.GroupActive {
		return nil, failedPrecondition("group %s is %s", group.ID, group.Status)
	}
	return group, nil
}

func validateAmount(amount, max money.Amount) error {
	if !amount.IsPositive() {
		return invalidArgument("amount must be positive, got %s", amount)
	}
	if max > 0 && amount > max {
		return invalidArgument("amount must be at most %s, got %s", max, amount)
	}
	return nil
}

// counterparty normalizes address and checks it is another participant of group.
func counterparty(group *models.Group, address, caller string) (string, error) {
	address = wallet.Normalize(address)
	if !group.HasParticipant(address) {
		return "", invalidArgument("%s is not a participant of group %s", wallet.Short(address), group.ID)
	}
	if address == caller {
		return "", invalidArgument("cannot settle with yourself")
	}
	return address, nil
}

// AddExpense records an expense split evenly across the whole group.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateAmount(req.Msg.Amount, MaxExpense); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.activeGroup(ctx, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}

	paidBy := caller
	if req.Msg.PaidBy != "" {
		paidBy = wallet.Normalize(req.Msg.PaidBy)
	}
	if !group.HasParticipant(paidBy) {
		return nil, toConnectError(invalidArgument("payer %s is not a participant", wallet.Short(paidBy)))
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidBy:      paidBy,
		Status:      models.ExpenseActive,
		CreatedAt:   s.now().Unix(),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "expense_id", expense.ID, "group_id", group.ID)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// CancelExpense stops an expense from counting. Only its payer or the group
// creator may cancel it.
func (s *LedgerService) CancelExpense(ctx context.Context, req *connect.Request[api.CancelExpenseRequest]) (*connect.Response[api.CancelExpenseResponse], error) {
	slog.Info("CancelExpense request received", "expense_id", req.Msg.ExpenseID)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	group, err := groupForParticipant(ctx, s.store, expense.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}
	if caller != expense.PaidBy && caller != group.CreatedBy {
		return nil, toConnectError(permissionDenied("only the payer or the group creator can cancel expense %s", expense.ID))
	}
	if expense.Status == models.ExpenseCancelled {
		return nil, toConnectError(failedPrecondition("expense %s is already cancelled", expense.ID))
	}

	if err := s.store.SetExpenseStatus(ctx, expense.ID, models.ExpenseCancelled); err != nil {
		slog.Error("CancelExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	expense.Status = models.ExpenseCancelled

	slog.Info("Expense cancelled", "expense_id", expense.ID)

	return connect.NewResponse(&api.CancelExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses in creation order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if _, err := groupForParticipant(ctx, s.store, req.Msg.GroupID, caller); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// RequestPayment records a pending payment between two participants. The
// caller must be one of them.
func (s *LedgerService) RequestPayment(ctx context.Context, req *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error) {
	slog.Info("RequestPayment request received",
		"group_id", req.Msg.GroupID,
		"from", wallet.Short(req.Msg.From),
		"to", wallet.Short(req.Msg.To),
		"amount", req.Msg.Amount,
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateAmount(req.Msg.Amount, 0); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.activeGroup(ctx, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}

	from, to := wallet.Normalize(req.Msg.From), wallet.Normalize(req.Msg.To)
	if caller != from && caller != to {
		return nil, toConnectError(permissionDenied("only the payer or the payee can request a payment"))
	}
	// The caller is one side; the other must be a different participant.
	other := to
	if caller == to {
		other = from
	}
	if _, err := counterparty(group, other, caller); err != nil {
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		GroupID:   group.ID,
		From:      from,
		To:        to,
		Amount:    req.Msg.Amount,
		Status:    models.PaymentPending,
		CreatedAt: s.now().Unix(),
		CreatedBy: caller,
		Notes:     req.Msg.Notes,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RequestPayment failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.PaymentTransitions.WithLabelValues(string(models.PaymentPending)).Inc()

	slog.Info("Payment requested", "payment_id", payment.ID, "group_id", group.ID)

	return connect.NewResponse(&api.RequestPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// transition loads a payment, checks who may act on it and moves it to status.
// The group must still be active, and the store refuses the write if another
// request moved the payment first.
func (s *LedgerService) transition(ctx context.Context, paymentID string, to models.PaymentStatus, allowed func(p *models.Payment, caller string) bool, update func(p *models.Payment) error) (*models.Payment, error) {
	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, err
	}

	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !allowed(payment, caller) {
		return nil, permissionDenied("%s cannot mark payment %s %s", wallet.Short(caller), payment.ID, to)
	}
	if _, err := s.activeGroup(ctx, payment.GroupID, caller); err != nil {
		return nil, err
	}

	if err := payment.Transition(to, caller, s.now().Unix()); err != nil {
		return nil, err
	}
	if update != nil {
		if err := update(payment); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}
	metrics.PaymentTransitions.WithLabelValues(string(to)).Inc()

	slog.Info("Payment updated", "payment_id", payment.ID, "status", payment.Status)
	return payment, nil
}

func isPayer(p *models.Payment, caller string) bool { return p.From == caller }

func isPayee(p *models.Payment, caller string) bool { return p.To == caller }

func isParty(p *models.Payment, caller string) bool { return p.From == caller || p.To == caller }

// CompletePayment marks a pending payment as paid on chain. Only the payer
// may complete it.
func (s *LedgerService) CompletePayment(ctx context.Context, req *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	slog.Info("CompletePayment request received", "payment_id", req.Msg.PaymentID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	payment, err := s.transition(ctx, req.Msg.PaymentID, models.PaymentCompleted, isPayer, func(p *models.Payment) error {
		if err := s.verifier.Verify(ctx, p, req.Msg.TransactionHash); err != nil {
			return err
		}
		p.TransactionHash = req.Msg.TransactionHash
		return nil
	})
	if err != nil {
		slog.Warn("CompletePayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CompletePaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// DisputePayment marks a pending payment as disputed. Only the payee may
// dispute it.
func (s *LedgerService) DisputePayment(ctx context.Context, req *connect.Request[api.DisputePaymentRequest]) (*connect.Response[api.DisputePaymentResponse], error) {
	slog.Info("DisputePayment request received", "payment_id", req.Msg.PaymentID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	payment, err := s.transition(ctx, req.Msg.PaymentID, models.PaymentDisputed, isPayee, func(p *models.Payment) error {
		if req.Msg.Reason != "" {
			p.Notes = req.Msg.Reason
		}
		return nil
	})
	if err != nil {
		slog.Warn("DisputePayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.DisputePaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// CancelPayment withdraws a pending payment. Either party may cancel it.
func (s *LedgerService) CancelPayment(ctx context.Context, req *connect.Request[api.CancelPaymentRequest]) (*connect.Response[api.CancelPaymentResponse], error) {
	slog.Info("CancelPayment request received", "payment_id", req.Msg.PaymentID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}

	payment, err := s.transition(ctx, req.Msg.PaymentID, models.PaymentCancelled, isParty, nil)
	if err != nil {
		slog.Warn("CancelPayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CancelPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// PayDebt records a transfer the caller already made on chain.
func (s *LedgerService) PayDebt(ctx context.Context, req *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error) {
	slog.Info("PayDebt request received",
		"group_id", req.Msg.GroupID,
		"to", wallet.Short(req.Msg.To),
		"amount", req.Msg.Amount,
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateAmount(req.Msg.Amount, 0); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.activeGroup(ctx, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := counterparty(group, req.Msg.To, caller)
	if err != nil {
		return nil, toConnectError(err)
	}

	now := s.now().Unix()
	payment := &models.Payment{
		GroupID:     group.ID,
		From:        caller,
		To:          to,
		Amount:      req.Msg.Amount,
		Status:      models.PaymentCompleted,
		CreatedAt:   now,
		CreatedBy:   caller,
		CompletedAt: now,
		CompletedBy: caller,
	}
	if err := s.verifier.Verify(ctx, payment, req.Msg.TransactionHash); err != nil {
		return nil, toConnectError(err)
	}
	payment.TransactionHash = req.Msg.TransactionHash

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("PayDebt failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.PaymentTransitions.WithLabelValues(string(models.PaymentCompleted)).Inc()

	slog.Info("Debt paid", "payment_id", payment.ID, "group_id", group.ID)

	return connect.NewResponse(&api.PayDebtResponse{Payment: toAPIPayment(payment)}), nil
}

// ForgiveDebt lets a creditor clear what a debtor owes them. It is stored
// as a completed payment from the debtor, with the reason and no hash.
func (s *LedgerService) ForgiveDebt(ctx context.Context, req *connect.Request[api.ForgiveDebtRequest]) (*connect.Response[api.ForgiveDebtResponse], error) {
	slog.Info("ForgiveDebt request received",
		"group_id", req.Msg.GroupID,
		"from", wallet.Short(req.Msg.From),
		"amount", req.Msg.Amount,
	)

	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := validateAmount(req.Msg.Amount, 0); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.activeGroup(ctx, req.Msg.GroupID, caller)
	if err != nil {
		return nil, toConnectError(err)
	}
	from, err := counterparty(group, req.Msg.From, caller)
	if err != nil {
		return nil, toConnectError(err)
	}

	now := s.now().Unix()
	payment := &models.Payment{
		GroupID:     group.ID,
		From:        from,
		To:          caller,
		Amount:      req.Msg.Amount,
		Status:      models.PaymentCompleted,
		CreatedAt:   now,
		CreatedBy:   caller,
		CompletedAt: now,
		CompletedBy: caller,
		Notes:       req.Msg.Reason,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("ForgiveDebt failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.PaymentTransitions.WithLabelValues(string(models.PaymentCompleted)).Inc()

	slog.Info("Debt forgiven", "payment_id", payment.ID, "group_id", group.ID)

	return connect.NewResponse(&api.ForgiveDebtResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns a group's payments in creation order.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	caller, err := callerAddress(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if _, err := groupForParticipant(ctx, s.store, req.Msg.GroupID, caller); err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}
