package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankTransactionType classifies a cash movement on a bank account.
type BankTransactionType string

const (
	TxDeposit    BankTransactionType = "deposit"
	TxWithdrawal BankTransactionType = "withdrawal"
	TxTransfer   BankTransactionType = "transfer"
	TxFee        BankTransactionType = "fee"
	TxInterest   BankTransactionType = "interest"
	TxOther      BankTransactionType = "other"
)

// Valid reports whether t is a known transaction type.
func (t BankTransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxTransfer, TxFee, TxInterest, TxOther:
		return true
	}
	return false
}

// IsMoneyIn reports whether the type brings cash into the account.
// Transfers are directional per leg and are never money-in by type alone.
func (t BankTransactionType) IsMoneyIn() bool {
	return t == TxDeposit || t == TxInterest
}

// CashDirection is the side of a cash movement from the bank account's point of view.
type CashDirection string

const (
	Inflow  CashDirection = "inflow"
	Outflow CashDirection = "outflow"
)

// DirectionFor returns the cash direction implied by a non-transfer type.
func DirectionFor(t BankTransactionType) CashDirection {
	if t.IsMoneyIn() {
		return Inflow
	}
	return Outflow
}

// BankAccount is a cash account at a bank, optionally linked to a ledger account.
type BankAccount struct {
	BankAccountID         string           `json:"bankAccountID"`
	OrganizationID        string           `json:"organizationID"`
	AccountNumber         string           `json:"-"` // plaintext in memory, encrypted at rest
	AccountName           string           `json:"accountName"`
	BankName              string           `json:"bankName"`
	AccountType           string           `json:"accountType"`
	CurrentBalance        decimal.Decimal  `json:"currentBalance"`
	GLAccountID           *string          `json:"glAccountID,omitempty"`
	IsPrimary             bool             `json:"isPrimary"`
	IsActive              bool             `json:"isActive"`
	LastReconciledDate    *time.Time       `json:"lastReconciledDate,omitempty"`
	LastReconciledBalance *decimal.Decimal `json:"lastReconciledBalance,omitempty"`
	DeletedAt             *time.Time       `json:"-"`
	AuditFields
}

// IsGLLinked reports whether postings should be produced for this account.
func (b BankAccount) IsGLLinked() bool {
	return b.GLAccountID != nil && *b.GLAccountID != ""
}

// MaskedAccountNumber shows only the last four characters.
func (b BankAccount) MaskedAccountNumber() string {
	n := len(b.AccountNumber)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", n-4) + b.AccountNumber[n-4:]
}

// BankTransaction is a single cash movement on a bank account.
// Amount is never negative; the sign comes from Direction.
type BankTransaction struct {
	TransactionID     string              `json:"transactionID"`
	OrganizationID    string              `json:"organizationID"`
	BankAccountID     string              `json:"bankAccountID"`
	TransactionNumber string              `json:"transactionNumber"`
	TransactionDate   time.Time           `json:"transactionDate"`
	TransactionType   BankTransactionType `json:"transactionType"`
	Direction         CashDirection       `json:"direction"`
	Amount            decimal.Decimal     `json:"amount"`
	Description       string              `json:"description"`
	Category          string              `json:"category,omitempty"`
	Reference         string              `json:"reference,omitempty"`
	IsReconciled      bool                `json:"isReconciled"`
	ReconciledDate    *time.Time          `json:"reconciledDate,omitempty"`
	JournalEntryID    *string             `json:"journalEntryID,omitempty"`
	TransferID        *string             `json:"transferID,omitempty"`
	DeletedAt         *time.Time          `json:"-"`
	AuditFields
}

// SignedAmount is the effect on the bank account's cash balance.
func (t BankTransaction) SignedAmount() decimal.Decimal {
	if t.Direction == Inflow {
		return t.Amount
	}
	return t.Amount.Neg()
}

// BankTransfer links the two legs of a movement between bank accounts.
type BankTransfer struct {
	TransferID        string          `json:"transferID"`
	OrganizationID    string          `json:"organizationID"`
	TransferNumber    string          `json:"transferNumber"`
	FromBankAccountID string          `json:"fromBankAccountID"`
	ToBankAccountID   string          `json:"toBankAccountID"`
	Amount            decimal.Decimal `json:"amount"`
	TransferDate      time.Time       `json:"transferDate"`
	Description       string          `json:"description"`
	FromTransactionID string          `json:"fromTransactionID"`
	ToTransactionID   string          `json:"toTransactionID"`
	JournalEntryID    *string         `json:"journalEntryID,omitempty"`
	DeletedAt         *time.Time      `json:"-"`
	AuditFields
}
