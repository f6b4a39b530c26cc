package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a row of the bank_accounts table. The account number is
// stored sealed and never leaves the repository in this form.
type BankAccount struct {
	BankAccountID         string              `db:"bank_account_id"`
	OrganizationID        string              `db:"organization_id"`
	AccountNumberSealed   []byte              `db:"account_number_sealed"`
	AccountName           string              `db:"account_name"`
	BankName              string              `db:"bank_name"`
	AccountType           string              `db:"account_type"`
	CurrentBalance        decimal.Decimal     `db:"current_balance"`
	GLAccountID           sql.NullString      `db:"gl_account_id"`
	IsPrimary             bool                `db:"is_primary"`
	IsActive              bool                `db:"is_active"`
	LastReconciledDate    sql.NullTime        `db:"last_reconciled_date"`
	LastReconciledBalance decimal.NullDecimal `db:"last_reconciled_balance"`
	DeletedAt             sql.NullTime        `db:"deleted_at"`
	AuditFields
}

// BankTransaction is a row of the bank_transactions table.
type BankTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	OrganizationID    string          `db:"organization_id"`
	BankAccountID     string          `db:"bank_account_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionDate   time.Time       `db:"transaction_date"`
	TransactionType   string          `db:"transaction_type"`
	Direction         string          `db:"direction"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Category          string          `db:"category"`
	Reference         string          `db:"reference"`
	IsReconciled      bool            `db:"is_reconciled"`
	ReconciledDate    sql.NullTime    `db:"reconciled_date"`
	JournalEntryID    sql.NullString  `db:"journal_entry_id"`
	TransferID        sql.NullString  `db:"transfer_id"`
	DeletedAt         sql.NullTime    `db:"deleted_at"`
	AuditFields
}

// BankTransfer is a row of the bank_transfers table.
type BankTransfer struct {
	TransferID        string          `db:"transfer_id"`
	OrganizationID    string          `db:"organization_id"`
	TransferNumber    string          `db:"transfer_number"`
	FromBankAccountID string          `db:"from_bank_account_id"`
	ToBankAccountID   string          `db:"to_bank_account_id"`
	Amount            decimal.Decimal `db:"amount"`
	TransferDate      time.Time       `db:"transfer_date"`
	Description       string          `db:"description"`
	FromTransactionID string          `db:"from_transaction_id"`
	ToTransactionID   string          `db:"to_transaction_id"`
	JournalEntryID    sql.NullString  `db:"journal_entry_id"`
	DeletedAt         sql.NullTime    `db:"deleted_at"`
	AuditFields
}
