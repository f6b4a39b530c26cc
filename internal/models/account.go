package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	OrganizationID  string          `db:"organization_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	SubType         string          `db:"sub_type"`
	ParentAccountID sql.NullString  `db:"parent_account_id"`
	IsParent        bool            `db:"is_parent"`
	Description     string          `db:"description"`
	DebitBalance    decimal.Decimal `db:"debit_balance"`
	CreditBalance   decimal.Decimal `db:"credit_balance"`
	CurrentBalance  decimal.Decimal `db:"current_balance"`
	IsActive        bool            `db:"is_active"`
	IsSystemAccount bool            `db:"is_system_account"`
	DeletedAt       sql.NullTime    `db:"deleted_at"`
	AuditFields
}
