package dto

import (
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	GeneratedAt string                    `json:"generatedAt"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	Totals      struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		GeneratedAt: tb.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Rows:        make([]TrialBalanceRowResponse, len(tb.Rows)),
		IsBalanced:  tb.IsBalanced,
	}
	for i, r := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			AccountName: r.AccountName,
			AccountType: string(r.AccountType),
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	resp.Totals.Debit = tb.TotalDebit
	resp.Totals.Credit = tb.TotalCredit
	return resp
}

// SetRolePermissionsRequest replaces the permission keys granted to a role.
type SetRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"dive,required"`
}
