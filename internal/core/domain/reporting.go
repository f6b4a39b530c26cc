package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account's net position on its debit or credit side.
type TrialBalance struct {
	OrganizationID string            `json:"organizationID"`
	GeneratedAt    time.Time         `json:"generatedAt"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebit     decimal.Decimal   `json:"totalDebit"`
	TotalCredit    decimal.Decimal   `json:"totalCredit"`
	IsBalanced     bool              `json:"isBalanced"`
}

// NewTrialBalance nets each account's running balances into one column.
func NewTrialBalance(orgID string, accounts []Account, at time.Time) TrialBalance {
	tb := TrialBalance{
		OrganizationID: orgID,
		GeneratedAt:    at,
		Rows:           make([]TrialBalanceRow, 0, len(accounts)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	for _, a := range accounts {
		row := TrialBalanceRow{
			AccountID:   a.AccountID,
			Code:        a.Code,
			AccountName: a.Name,
			AccountType: a.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		net := a.DebitBalance.Sub(a.CreditBalance)
		if net.IsPositive() {
			row.Debit = net
		} else {
			row.Credit = net.Neg()
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.IsBalanced = tb.TotalDebit.Equal(tb.TotalCredit)
	return tb
}

// AccountDrift is an account whose stored CurrentBalance disagrees with its totals.
type AccountDrift struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	DebitBalance   decimal.Decimal `json:"debitBalance"`
	CreditBalance  decimal.Decimal `json:"creditBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// UnbalancedEntry is a posted entry whose lines do not sum to equal sides.
type UnbalancedEntry struct {
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// IntegrityReport is the result of a ledger integrity sweep.
type IntegrityReport struct {
	OrganizationID    string            `json:"organizationID"`
	CheckedAt         time.Time         `json:"checkedAt"`
	AccountsChecked   int               `json:"accountsChecked"`
	DriftedAccounts   []AccountDrift    `json:"driftedAccounts"`
	UnbalancedEntries []UnbalancedEntry `json:"unbalancedEntries"`
	LedgerBalanced    bool              `json:"ledgerBalanced"`
}

// OK reports whether the sweep found nothing wrong.
func (r IntegrityReport) OK() bool {
	return len(r.DriftedAccounts) == 0 && len(r.UnbalancedEntries) == 0 && r.LedgerBalanced
}
