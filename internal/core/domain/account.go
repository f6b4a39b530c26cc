package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether the type increases with debits (assets and expenses).
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Well-known account subtypes used by contra-account resolution and the default chart.
const (
	SubTypeCash           = "cash"
	SubTypeBank           = "bank"
	SubTypeSales          = "sales"
	SubTypeInterestIncome = "interest_income"
	SubTypeGeneral        = "general"
	SubTypeBankCharges    = "bank_charges"
	SubTypeOther          = "other"
)

// Account represents a chart-of-accounts entry with running balances.
//
// CurrentBalance is always DebitBalance - CreditBalance; NormalBalance gives the
// sign-adjusted view for credit-normal types.
type Account struct {
	AccountID       string          `json:"accountID"`
	OrganizationID  string          `json:"organizationID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	SubType         string          `json:"subType"`
	ParentAccountID *string         `json:"parentAccountID,omitempty"`
	IsParent        bool            `json:"isParent"`
	Description     string          `json:"description"`
	DebitBalance    decimal.Decimal `json:"debitBalance"`
	CreditBalance   decimal.Decimal `json:"creditBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	IsActive        bool            `json:"isActive"`
	IsSystemAccount bool            `json:"isSystemAccount"`
	DeletedAt       *time.Time      `json:"-"`
	AuditFields
}

// BalanceDelta is the change a posting applies to one account.
type BalanceDelta struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Add accumulates another delta.
func (d BalanceDelta) Add(o BalanceDelta) BalanceDelta {
	return BalanceDelta{Debit: d.Debit.Add(o.Debit), Credit: d.Credit.Add(o.Credit)}
}

// Apply adds the delta to the running balances and recomputes CurrentBalance.
func (a *Account) Apply(delta BalanceDelta) {
	a.DebitBalance = a.DebitBalance.Add(delta.Debit)
	a.CreditBalance = a.CreditBalance.Add(delta.Credit)
	a.RecomputeBalance()
}

// RecomputeBalance derives CurrentBalance from the debit and credit totals.
func (a *Account) RecomputeBalance() {
	a.CurrentBalance = a.DebitBalance.Sub(a.CreditBalance)
}

// IsBalanceConsistent reports whether CurrentBalance matches its derivation.
func (a Account) IsBalanceConsistent() bool {
	return a.CurrentBalance.Equal(a.DebitBalance.Sub(a.CreditBalance))
}

// NormalBalance returns the balance in the account type's natural sign:
// debit - credit for assets and expenses, credit - debit otherwise.
func (a Account) NormalBalance() decimal.Decimal {
	if a.AccountType.IsDebitNormal() {
		return a.DebitBalance.Sub(a.CreditBalance)
	}
	return a.CreditBalance.Sub(a.DebitBalance)
}

// IsDeleted reports whether the account was soft-deleted.
func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}
