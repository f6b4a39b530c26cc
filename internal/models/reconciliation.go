package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BankReconciliation is a row of the bank_reconciliations table.
type BankReconciliation struct {
	ReconciliationID         string              `db:"reconciliation_id"`
	OrganizationID           string              `db:"organization_id"`
	BankAccountID            string              `db:"bank_account_id"`
	ReconciliationNumber     string              `db:"reconciliation_number"`
	StatementDate            time.Time           `db:"statement_date"`
	StatementBalance         decimal.Decimal     `db:"statement_balance"`
	BookBalance              decimal.Decimal     `db:"book_balance"`
	Difference               decimal.Decimal     `db:"difference"`
	ClosingBookBalance       decimal.NullDecimal `db:"closing_book_balance"`
	ReconciledTransactionIDs []string            `db:"reconciled_transaction_ids"`
	Status                   string              `db:"status"`
	CompletedAt              sql.NullTime        `db:"completed_at"`
	CompletedBy              sql.NullString      `db:"completed_by"`
	Notes                    string              `db:"notes"`
	AuditFields
}
