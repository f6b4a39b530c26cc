package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks a reconciliation's lifecycle.
type ReconciliationStatus string

const (
	ReconciliationInProgress ReconciliationStatus = "in-progress"
	ReconciliationCompleted  ReconciliationStatus = "completed"
	ReconciliationCancelled  ReconciliationStatus = "cancelled"
)

// BankReconciliation compares a bank statement to the book balance.
//
// BookBalance is a snapshot taken at creation. ClosingBookBalance is the live
// balance seen at completion and is informational only.
type BankReconciliation struct {
	ReconciliationID         string               `json:"reconciliationID"`
	OrganizationID           string               `json:"organizationID"`
	BankAccountID            string               `json:"bankAccountID"`
	ReconciliationNumber     string               `json:"reconciliationNumber"`
	StatementDate            time.Time            `json:"statementDate"`
	StatementBalance         decimal.Decimal      `json:"statementBalance"`
	BookBalance              decimal.Decimal      `json:"bookBalance"`
	Difference               decimal.Decimal      `json:"difference"`
	ClosingBookBalance       *decimal.Decimal     `json:"closingBookBalance,omitempty"`
	ReconciledTransactionIDs []string             `json:"reconciledTransactionIDs"`
	Status                   ReconciliationStatus `json:"status"`
	CompletedAt              *time.Time           `json:"completedAt,omitempty"`
	CompletedBy              string               `json:"completedBy,omitempty"`
	Notes                    string               `json:"notes,omitempty"`
	AuditFields
}

// NewDifference returns statement - book.
func NewDifference(statement, book decimal.Decimal) decimal.Decimal {
	return statement.Sub(book)
}
