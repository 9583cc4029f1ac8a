package service

import (
	"github.com/mmynk/splitpay/internal/calculator"
	"github.com/mmynk/splitpay/internal/models"
	"github.com/mmynk/splitpay/pkg/api"
)

func toAPIAccount(a *models.Account) *api.Account {
	return &api.Account{
		Address:     a.Address,
		DisplayName: a.DisplayName,
		CreatedAt:   a.CreatedAt,
		LastSeenAt:  a.LastSeenAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	participants := make([]api.Participant, len(g.Participants))
	for i, address := range g.Participants {
		participants[i] = api.Participant{Address: address, DisplayName: g.DisplayName(address)}
	}
	return &api.Group{
		ID:             g.ID,
		Name:           g.Name,
		Description:    g.Description,
		Category:       g.Category,
		Currency:       g.Currency,
		DivisionMethod: g.DivisionMethod,
		Participants:   participants,
		Status:         string(g.Status),
		StartDate:      g.StartDate,
		EndDate:        g.EndDate,
		CreatedBy:      g.CreatedBy,
		CreatedAt:      g.CreatedAt,
		TotalAmount:    g.TotalAmount,
		ExpenseCount:   g.ExpenseCount,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:              p.ID,
		GroupID:         p.GroupID,
		From:            p.From,
		To:              p.To,
		Amount:          p.Amount,
		Status:          string(p.Status),
		TransactionHash: p.TransactionHash,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
		CompletedAt:     p.CompletedAt,
		CompletedBy:     p.CompletedBy,
		Notes:           p.Notes,
	}
}

func toAPIBalances(group *models.Group, result *calculator.GroupBalances, viewer calculator.ViewerSummary) *api.GetGroupBalancesResponse {
	members := make([]*api.MemberBalance, len(result.Members))
	for i, m := range result.Members {
		members[i] = &api.MemberBalance{
			Address:          m.Address,
			DisplayName:      group.DisplayName(m.Address),
			NetBalance:       m.NetBalance,
			TotalPaid:        m.TotalPaid,
			TotalShare:       m.TotalShare,
			PaymentsSent:     m.PaymentsSent,
			PaymentsReceived: m.PaymentsReceived,
		}
	}

	debts := make([]*api.DebtEdge, len(result.Debts))
	for i, d := range result.Debts {
		debts[i] = &api.DebtEdge{From: d.From, To: d.To, Amount: d.Amount}
	}

	return &api.GetGroupBalancesResponse{
		Members: members,
		Debts:   debts,
		Viewer: &api.ViewerSummary{
			Viewer: viewer.Viewer,
			Owes:   viewer.Owes,
			IsOwed: viewer.IsOwed,
			Net:    viewer.Net(),
		},
		TotalSpent: result.TotalSpent,
	}
}
