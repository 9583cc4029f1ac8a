// Package api defines the request and response messages of the splitpay.v1
// services. Messages are plain structs encoded as JSON on the wire; amounts
// travel as decimal strings in USDC (e.g. "12.5").
package api

import "github.com/mmynk/splitpay/internal/money"

// Account is a signed-in wallet.
type Account struct {
	Address     string `json:"address"`
	DisplayName string `json:"displayName,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	LastSeenAt  int64  `json:"lastSeenAt"`
}

// Participant is a group member: a wallet address with an optional name.
type Participant struct {
	Address     string `json:"address" validate:"required,address"`
	DisplayName string `json:"displayName,omitempty" validate:"max=50"`
}

// Group is a participant list that owns expenses and payments.
type Group struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Category       string        `json:"category,omitempty"`
	Currency       string        `json:"currency"`
	DivisionMethod string        `json:"divisionMethod"`
	Participants   []Participant `json:"participants"`
	Status         string        `json:"status"`
	StartDate      int64         `json:"startDate"`
	EndDate        int64         `json:"endDate,omitempty"`
	CreatedBy      string        `json:"createdBy"`
	CreatedAt      int64         `json:"createdAt"`
	// TotalAmount sums the active expenses; ExpenseCount counts them.
	TotalAmount  money.Amount `json:"totalAmount"`
	ExpenseCount int          `json:"expenseCount"`
}

// Expense is an amount one participant paid for the whole group.
type Expense struct {
	ID          string       `json:"id"`
	GroupID     string       `json:"groupId"`
	Description string       `json:"description,omitempty"`
	Amount      money.Amount `json:"amount"`
	PaidBy      string       `json:"paidBy"`
	Status      string       `json:"status"`
	CreatedAt   int64        `json:"createdAt"`
}

// Payment is a transfer between two participants.
type Payment struct {
	ID              string       `json:"id"`
	GroupID         string       `json:"groupId"`
	From            string       `json:"from"`
	To              string       `json:"to"`
	Amount          money.Amount `json:"amount"`
	Status          string       `json:"status"`
	TransactionHash string       `json:"transactionHash,omitempty"`
	CreatedAt       int64        `json:"createdAt"`
	CreatedBy       string       `json:"createdBy"`
	CompletedAt     int64        `json:"completedAt,omitempty"`
	CompletedBy     string       `json:"completedBy,omitempty"`
	Notes           string       `json:"notes,omitempty"`
}

// MemberBalance is a participant's position in a group. A positive
// NetBalance means the group owes the participant.
type MemberBalance struct {
	Address          string       `json:"address"`
	DisplayName      string       `json:"displayName,omitempty"`
	NetBalance       money.Amount `json:"netBalance"`
	TotalPaid        money.Amount `json:"totalPaid"`
	TotalShare       money.Amount `json:"totalShare"`
	PaymentsSent     money.Amount `json:"paymentsSent"`
	PaymentsReceived money.Amount `json:"paymentsReceived"`
}

// DebtEdge is one settlement transfer: From pays To.
type DebtEdge struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount money.Amount `json:"amount"`
}

// ViewerSummary is the settlement seen from one participant.
type ViewerSummary struct {
	Viewer string       `json:"viewer"`
	Owes   money.Amount `json:"owes"`
	IsOwed money.Amount `json:"isOwed"`
	Net    money.Amount `json:"net"`
}

// AccountService

type SignInRequest struct {
	Address     string `json:"address" validate:"required,address"`
	DisplayName string `json:"displayName,omitempty" validate:"max=50"`
}

type SignInResponse struct {
	Account *Account `json:"account"`
	Token   string   `json:"token"`
}

type GetCurrentAccountRequest struct{}

type GetCurrentAccountResponse struct {
	Account *Account `json:"account"`
}

// GroupService

type CreateGroupRequest struct {
	Name         string        `json:"name" validate:"required,groupname"`
	Description  string        `json:"description,omitempty" validate:"max=500"`
	Category     string        `json:"category,omitempty" validate:"max=50"`
	Participants []Participant `json:"participants" validate:"dive"`
	StartDate    int64         `json:"startDate,omitempty" validate:"gte=0"`
	EndDate      int64         `json:"endDate,omitempty" validate:"gte=0"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID     string `json:"groupId" validate:"required"`
	Name        string `json:"name" validate:"required,groupname"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Category    string `json:"category,omitempty" validate:"max=50"`
	// Status is left unchanged when empty.
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=active completed archived"`
	EndDate int64  `json:"endDate,omitempty" validate:"gte=0"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type DeleteGroupResponse struct{}

type AddParticipantRequest struct {
	GroupID     string `json:"groupId" validate:"required"`
	Address     string `json:"address" validate:"required,address"`
	DisplayName string `json:"displayName,omitempty" validate:"max=50"`
}

type AddParticipantResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	// Viewer defaults to the signed-in account.
	Viewer string `json:"viewer,omitempty" validate:"omitempty,address"`
}

type GetGroupBalancesResponse struct {
	Members    []*MemberBalance `json:"members"`
	Debts      []*DebtEdge      `json:"debts"`
	Viewer     *ViewerSummary   `json:"viewer"`
	TotalSpent money.Amount     `json:"totalSpent"`
}

// LedgerService

type AddExpenseRequest struct {
	GroupID     string       `json:"groupId" validate:"required"`
	Description string       `json:"description" validate:"max=200"`
	Amount      money.Amount `json:"amount"`
	// PaidBy defaults to the signed-in account.
	PaidBy string `json:"paidBy,omitempty" validate:"omitempty,address"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type CancelExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type CancelExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type RequestPaymentRequest struct {
	GroupID string       `json:"groupId" validate:"required"`
	From    string       `json:"from" validate:"required,address"`
	To      string       `json:"to" validate:"required,address"`
	Amount  money.Amount `json:"amount"`
	Notes   string       `json:"notes,omitempty" validate:"max=500"`
}

type RequestPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type CompletePaymentRequest struct {
	PaymentID       string `json:"paymentId" validate:"required"`
	TransactionHash string `json:"transactionHash" validate:"required,txhash"`
}

type CompletePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type DisputePaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Reason    string `json:"reason,omitempty" validate:"max=500"`
}

type DisputePaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type CancelPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
}

type CancelPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type PayDebtRequest struct {
	GroupID         string       `json:"groupId" validate:"required"`
	To              string       `json:"to" validate:"required,address"`
	Amount          money.Amount `json:"amount"`
	TransactionHash string       `json:"transactionHash" validate:"required,txhash"`
}

type PayDebtResponse struct {
	Payment *Payment `json:"payment"`
}

type ForgiveDebtRequest struct {
	GroupID string       `json:"groupId" validate:"required"`
	From    string       `json:"from" validate:"required,address"`
	Amount  money.Amount `json:"amount"`
	Reason  string       `json:"reason" validate:"required,max=500"`
}

type ForgiveDebtResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
