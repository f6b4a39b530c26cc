package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReconciliationRequest starts a reconciliation against a bank statement.
type CreateReconciliationRequest struct {
	BankAccountID    string          `json:"bankAccountID" binding:"required"`
	StatementDate    time.Time       `json:"statementDate" binding:"required"`
	StatementBalance decimal.Decimal `json:"statementBalance"`
	Notes            string          `json:"notes" binding:"max=1000"`
}

// CompleteReconciliationRequest lists the transactions matched to the statement.
type CompleteReconciliationRequest struct {
	TransactionIDs []string `json:"transactionIDs" binding:"dive,required"`
}

// ListReconciliationsParams defines query parameters for listing reconciliations.
type ListReconciliationsParams struct {
	BankAccountID string `form:"bankAccountID" binding:"required"`
}
