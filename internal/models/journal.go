package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID        string          `db:"entry_id"`
	OrganizationID string          `db:"organization_id"`
	EntryNumber    string          `db:"entry_number"`
	EntryDate      time.Time       `db:"entry_date"`
	EntryType      string          `db:"entry_type"`
	Description    string          `db:"description"`
	ReferenceType  sql.NullString  `db:"reference_type"`
	ReferenceID    sql.NullString  `db:"reference_id"`
	TotalDebit     decimal.Decimal `db:"total_debit"`
	TotalCredit    decimal.Decimal `db:"total_credit"`
	Status         string          `db:"status"`
	PostedDate     sql.NullTime    `db:"posted_date"`
	PostedBy       sql.NullString  `db:"posted_by"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	EntryID     string          `db:"entry_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
