package dto

import (
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=20"`
	Name            string             `json:"name" binding:"required,max=200"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=asset liability equity revenue expense"`
	SubType         string             `json:"subType" binding:"max=50"`
	ParentAccountID *string            `json:"parentAccountID"` // empty string is treated as no parent
	Description     string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	SubType     *string `json:"subType" binding:"omitempty,max=50"`
	IsActive    *bool   `json:"isActive"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType     string `form:"accountType" binding:"omitempty,oneof=asset liability equity revenue expense"`
	IncludeInactive bool   `form:"includeInactive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	SubType         string             `json:"subType"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	IsParent        bool               `json:"isParent"`
	Description     string             `json:"description"`
	DebitBalance    decimal.Decimal    `json:"debitBalance"`
	CreditBalance   decimal.Decimal    `json:"creditBalance"`
	CurrentBalance  decimal.Decimal    `json:"currentBalance"`
	NormalBalance   decimal.Decimal    `json:"normalBalance"`
	IsActive        bool               `json:"isActive"`
	IsSystemAccount bool               `json:"isSystemAccount"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		SubType:         acc.SubType,
		ParentAccountID: acc.ParentAccountID,
		IsParent:        acc.IsParent,
		Description:     acc.Description,
		DebitBalance:    acc.DebitBalance,
		CreditBalance:   acc.CreditBalance,
		CurrentBalance:  acc.CurrentBalance,
		NormalBalance:   acc.NormalBalance(),
		IsActive:        acc.IsActive,
		IsSystemAccount: acc.IsSystemAccount,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
