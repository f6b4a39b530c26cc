package dto

import (
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
type CreateBankAccountRequest struct {
	AccountNumber string  `json:"accountNumber" binding:"required,max=64"`
	AccountName   string  `json:"accountName" binding:"required,max=200"`
	BankName      string  `json:"bankName" binding:"required,max=200"`
	AccountType   string  `json:"accountType" binding:"required,oneof=checking savings credit_card cash other"`
	GLAccountID   *string `json:"glAccountID"`
	IsPrimary     bool    `json:"isPrimary"`
}

// UpdateBankAccountRequest defines the fields of a bank account that may change.
type UpdateBankAccountRequest struct {
	AccountName *string `json:"accountName" binding:"omitempty,max=200"`
	BankName    *string `json:"bankName" binding:"omitempty,max=200"`
	GLAccountID *string `json:"glAccountID"` // empty string unlinks
	IsPrimary   *bool   `json:"isPrimary"`
	IsActive    *bool   `json:"isActive"`
}

// BankAccountResponse never carries the full account number.
type BankAccountResponse struct {
	BankAccountID         string           `json:"bankAccountID"`
	AccountNumber         string           `json:"accountNumber"`
	AccountName           string           `json:"accountName"`
	BankName              string           `json:"bankName"`
	AccountType           string           `json:"accountType"`
	CurrentBalance        decimal.Decimal  `json:"currentBalance"`
	GLAccountID           *string          `json:"glAccountID,omitempty"`
	IsPrimary             bool             `json:"isPrimary"`
	IsActive              bool             `json:"isActive"`
	LastReconciledDate    *time.Time       `json:"lastReconciledDate,omitempty"`
	LastReconciledBalance *decimal.Decimal `json:"lastReconciledBalance,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// ToBankAccountResponse converts a domain.BankAccount, masking the account number.
func ToBankAccountResponse(b *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:         b.BankAccountID,
		AccountNumber:         b.MaskedAccountNumber(),
		AccountName:           b.AccountName,
		BankName:              b.BankName,
		AccountType:           b.AccountType,
		CurrentBalance:        b.CurrentBalance,
		GLAccountID:           b.GLAccountID,
		IsPrimary:             b.IsPrimary,
		IsActive:              b.IsActive,
		LastReconciledDate:    b.LastReconciledDate,
		LastReconciledBalance: b.LastReconciledBalance,
		CreatedAt:             b.CreatedAt,
	}
}

// CreateBankTransactionRequest records a deposit, withdrawal, fee, interest or other movement.
type CreateBankTransactionRequest struct {
	BankAccountID   string                     `json:"bankAccountID" binding:"required"`
	TransactionDate time.Time                  `json:"transactionDate" binding:"required"`
	TransactionType domain.BankTransactionType `json:"transactionType" binding:"required,oneof=deposit withdrawal transfer fee interest other"`
	Amount          decimal.Decimal            `json:"amount"`
	Description     string                     `json:"description" binding:"max=500"`
	Category        string                     `json:"category" binding:"max=200"`
	Reference       string                     `json:"reference" binding:"max=100"`
}

// UpdateBankTransactionRequest carries editable fields. Amount and TransactionType
// are accepted only so that an attempt to change them can be rejected explicitly.
type UpdateBankTransactionRequest struct {
	TransactionDate *time.Time                  `json:"transactionDate"`
	Description     *string                     `json:"description" binding:"omitempty,max=500"`
	Category        *string                     `json:"category" binding:"omitempty,max=200"`
	Reference       *string                     `json:"reference" binding:"omitempty,max=100"`
	Amount          *decimal.Decimal            `json:"amount"`
	TransactionType *domain.BankTransactionType `json:"transactionType"`
}

// ListBankTransactionsParams defines query parameters for listing bank transactions.
type ListBankTransactionsParams struct {
	BankAccountID string  `form:"bankAccountID" binding:"required"`
	Unreconciled  bool    `form:"unreconciled"`
	Limit         int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken     *string `form:"nextToken"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	TransactionID     string                     `json:"transactionID"`
	BankAccountID     string                     `json:"bankAccountID"`
	TransactionNumber string                     `json:"transactionNumber"`
	TransactionDate   time.Time                  `json:"transactionDate"`
	TransactionType   domain.BankTransactionType `json:"transactionType"`
	Direction         domain.CashDirection       `json:"direction"`
	Amount            decimal.Decimal            `json:"amount"`
	Description       string                     `json:"description"`
	Category          string                     `json:"category,omitempty"`
	Reference         string                     `json:"reference,omitempty"`
	IsReconciled      bool                       `json:"isReconciled"`
	ReconciledDate    *time.Time                 `json:"reconciledDate,omitempty"`
	JournalEntryID    *string                    `json:"journalEntryID,omitempty"`
	TransferID        *string                    `json:"transferID,omitempty"`
	CreatedAt         time.Time                  `json:"createdAt"`
	CreatedBy         string                     `json:"createdBy"`
}

// ToBankTransactionResponse converts a domain.BankTransaction to its DTO.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		TransactionID:     t.TransactionID,
		BankAccountID:     t.BankAccountID,
		TransactionNumber: t.TransactionNumber,
		TransactionDate:   t.TransactionDate,
		TransactionType:   t.TransactionType,
		Direction:         t.Direction,
		Amount:            t.Amount,
		Description:       t.Description,
		Category:          t.Category,
		Reference:         t.Reference,
		IsReconciled:      t.IsReconciled,
		ReconciledDate:    t.ReconciledDate,
		JournalEntryID:    t.JournalEntryID,
		TransferID:        t.TransferID,
		CreatedAt:         t.CreatedAt,
		CreatedBy:         t.CreatedBy,
	}
}

// ListBankTransactionsResponse wraps a page of bank transactions.
type ListBankTransactionsResponse struct {
	Transactions []BankTransactionResponse `json:"transactions"`
	NextToken    *string                   `json:"nextToken,omitempty"`
}

// CreateBankTransferRequest moves cash between two bank accounts of the organization.
type CreateBankTransferRequest struct {
	FromBankAccountID string          `json:"fromBankAccountID" binding:"required"`
	ToBankAccountID   string          `json:"toBankAccountID" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
	TransferDate      time.Time       `json:"transferDate" binding:"required"`
	Description       string          `json:"description" binding:"max=500"`
}

// ListBankTransfersParams defines query parameters for listing transfers.
type ListBankTransfersParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListBankTransfersResponse wraps a page of transfers.
type ListBankTransfersResponse struct {
	Transfers []domain.BankTransfer `json:"transfers"`
	NextToken *string               `json:"nextToken,omitempty"`
}
