package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitpay/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService, which
// records expenses and payments.
const LedgerServiceName = "splitpay.v1.LedgerService"

const (
	LedgerServiceAddExpenseProcedure      = "/splitpay.v1.LedgerService/AddExpense"
	LedgerServiceCancelExpenseProcedure   = "/splitpay.v1.LedgerService/CancelExpense"
	LedgerServiceListExpensesProcedure    = "/splitpay.v1.LedgerService/ListExpenses"
	LedgerServiceRequestPaymentProcedure  = "/splitpay.v1.LedgerService/RequestPayment"
	LedgerServiceCompletePaymentProcedure = "/splitpay.v1.LedgerService/CompletePayment"
	LedgerServiceDisputePaymentProcedure  = "/splitpay.v1.LedgerService/DisputePayment"
	LedgerServiceCancelPaymentProcedure   = "/splitpay.v1.LedgerService/CancelPayment"
	LedgerServicePayDebtProcedure         = "/splitpay.v1.LedgerService/PayDebt"
	LedgerServiceForgiveDebtProcedure     = "/splitpay.v1.LedgerService/ForgiveDebt"
	LedgerServiceListPaymentsProcedure    = "/splitpay.v1.LedgerService/ListPayments"
)

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	CancelExpense(context.Context, *connect.Request[api.CancelExpenseRequest]) (*connect.Response[api.CancelExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	RequestPayment(context.Context, *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error)
	CompletePayment(context.Context, *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error)
	DisputePayment(context.Context, *connect.Request[api.DisputePaymentRequest]) (*connect.Response[api.DisputePaymentResponse], error)
	CancelPayment(context.Context, *connect.Request[api.CancelPaymentRequest]) (*connect.Response[api.CancelPaymentResponse], error)
	PayDebt(context.Context, *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error)
	ForgiveDebt(context.Context, *connect.Request[api.ForgiveDebtRequest]) (*connect.Response[api.ForgiveDebtResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the
// path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		LedgerServiceAddExpenseProcedure:      connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceCancelExpenseProcedure:   connect.NewUnaryHandler(LedgerServiceCancelExpenseProcedure, svc.CancelExpense, opts...),
		LedgerServiceListExpensesProcedure:    connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceRequestPaymentProcedure:  connect.NewUnaryHandler(LedgerServiceRequestPaymentProcedure, svc.RequestPayment, opts...),
		LedgerServiceCompletePaymentProcedure: connect.NewUnaryHandler(LedgerServiceCompletePaymentProcedure, svc.CompletePayment, opts...),
		LedgerServiceDisputePaymentProcedure:  connect.NewUnaryHandler(LedgerServiceDisputePaymentProcedure, svc.DisputePayment, opts...),
		LedgerServiceCancelPaymentProcedure:   connect.NewUnaryHandler(LedgerServiceCancelPaymentProcedure, svc.CancelPayment, opts...),
		LedgerServicePayDebtProcedure:         connect.NewUnaryHandler(LedgerServicePayDebtProcedure, svc.PayDebt, opts...),
		LedgerServiceForgiveDebtProcedure:     connect.NewUnaryHandler(LedgerServiceForgiveDebtProcedure, svc.ForgiveDebt, opts...),
		LedgerServiceListPaymentsProcedure:    connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...),
	}
	return "/" + LedgerServiceName + "/", serveRoutes(routes)
}

// LedgerServiceClient calls a remote LedgerService.
type LedgerServiceClient struct {
	addExpense      *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	cancelExpense   *connect.Client[api.CancelExpenseRequest, api.CancelExpenseResponse]
	listExpenses    *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	requestPayment  *connect.Client[api.RequestPaymentRequest, api.RequestPaymentResponse]
	completePayment *connect.Client[api.CompletePaymentRequest, api.CompletePaymentResponse]
	disputePayment  *connect.Client[api.DisputePaymentRequest, api.DisputePaymentResponse]
	cancelPayment   *connect.Client[api.CancelPaymentRequest, api.CancelPaymentResponse]
	payDebt         *connect.Client[api.PayDebtRequest, api.PayDebtResponse]
	forgiveDebt     *connect.Client[api.ForgiveDebtRequest, api.ForgiveDebtResponse]
	listPayments    *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
}

// NewLedgerServiceClient creates a client for the LedgerService at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		addExpense:      connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		cancelExpense:   connect.NewClient[api.CancelExpenseRequest, api.CancelExpenseResponse](httpClient, baseURL+LedgerServiceCancelExpenseProcedure, opts...),
		listExpenses:    connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		requestPayment:  connect.NewClient[api.RequestPaymentRequest, api.RequestPaymentResponse](httpClient, baseURL+LedgerServiceRequestPaymentProcedure, opts...),
		completePayment: connect.NewClient[api.CompletePaymentRequest, api.CompletePaymentResponse](httpClient, baseURL+LedgerServiceCompletePaymentProcedure, opts...),
		disputePayment:  connect.NewClient[api.DisputePaymentRequest, api.DisputePaymentResponse](httpClient, baseURL+LedgerServiceDisputePaymentProcedure, opts...),
		cancelPayment:   connect.NewClient[api.CancelPaymentRequest, api.CancelPaymentResponse](httpClient, baseURL+LedgerServiceCancelPaymentProcedure, opts...),
		payDebt:         connect.NewClient[api.PayDebtRequest, api.PayDebtResponse](httpClient, baseURL+LedgerServicePayDebtProcedure, opts...),
		forgiveDebt:     connect.NewClient[api.ForgiveDebtRequest, api.ForgiveDebtResponse](httpClient, baseURL+LedgerServiceForgiveDebtProcedure, opts...),
		listPayments:    connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
	}
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CancelExpense(ctx context.Context, req *connect.Request[api.CancelExpenseRequest]) (*connect.Response[api.CancelExpenseResponse], error) {
	return c.cancelExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RequestPayment(ctx context.Context, req *connect.Request[api.RequestPaymentRequest]) (*connect.Response[api.RequestPaymentResponse], error) {
	return c.requestPayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CompletePayment(ctx context.Context, req *connect.Request[api.CompletePaymentRequest]) (*connect.Response[api.CompletePaymentResponse], error) {
	return c.completePayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DisputePayment(ctx context.Context, req *connect.Request[api.DisputePaymentRequest]) (*connect.Response[api.DisputePaymentResponse], error) {
	return c.disputePayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CancelPayment(ctx context.Context, req *connect.Request[api.CancelPaymentRequest]) (*connect.Response[api.CancelPaymentResponse], error) {
	return c.cancelPayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) PayDebt(ctx context.Context, req *connect.Request[api.PayDebtRequest]) (*connect.Response[api.PayDebtResponse], error) {
	return c.payDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ForgiveDebt(ctx context.Context, req *connect.Request[api.ForgiveDebtRequest]) (*connect.Response[api.ForgiveDebtResponse], error) {
	return c.forgiveDebt.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}
