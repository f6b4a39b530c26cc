package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "draft"
	Posted JournalStatus = "posted"
)

// EntryType distinguishes user-authored entries from engine-generated ones.
type EntryType string

const (
	EntryManual    EntryType = "manual"
	EntryAutomated EntryType = "automated"
)

// Reference types linking an entry back to its source event.
const (
	RefBankTransaction = "bank_transaction"
	RefBankTransfer    = "bank_transfer"
	RefJournalReversal = "journal_reversal"
)

var (
	ErrJournalMinLines   = fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	ErrJournalUnbalanced = fmt.Errorf("%w: journal entry debits and credits do not balance", apperrors.ErrValidation)
	ErrJournalPosted     = fmt.Errorf("%w: journal entry is already posted", apperrors.ErrConflict)
)

// LineItem is a single debit or credit against one account.
type LineItem struct {
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Delta returns the balance change this line applies to its account.
func (l LineItem) Delta() BalanceDelta {
	return BalanceDelta{Debit: l.Debit, Credit: l.Credit}
}

// Validate checks that exactly one side is nonzero and neither is negative.
func (l LineItem) Validate() error {
	if l.AccountID == "" {
		return apperrors.Validation("line %d: account is required", l.LineNumber)
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return apperrors.Validation("line %d: amounts must not be negative", l.LineNumber)
	}
	if l.Debit.IsZero() == l.Credit.IsZero() {
		return apperrors.Validation("line %d: exactly one of debit or credit must be nonzero", l.LineNumber)
	}
	if !HasMoneyScale(l.Debit) || !HasMoneyScale(l.Credit) {
		return apperrors.Validation("line %d: amounts may have at most %d decimal places", l.LineNumber, MoneyScale)
	}
	return nil
}

// JournalEntry is a balanced set of lines recording one financial event.
type JournalEntry struct {
	EntryID        string          `json:"entryID"`
	OrganizationID string          `json:"organizationID"`
	EntryNumber    string          `json:"entryNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	EntryType      EntryType       `json:"entryType"`
	Description    string          `json:"description"`
	ReferenceType  string          `json:"referenceType,omitempty"`
	ReferenceID    string          `json:"referenceID,omitempty"`
	LineItems      []LineItem      `json:"lineItems"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	IsBalanced     bool            `json:"isBalanced"`
	Status         JournalStatus   `json:"status"`
	PostedDate     *time.Time      `json:"postedDate,omitempty"`
	PostedBy       string          `json:"postedBy,omitempty"`
	AuditFields
}

// ComputeTotals numbers the lines and recomputes TotalDebit, TotalCredit and IsBalanced.
func (e *JournalEntry) ComputeTotals() {
	e.TotalDebit = decimal.Zero
	e.TotalCredit = decimal.Zero
	for i := range e.LineItems {
		e.LineItems[i].LineNumber = i + 1
		e.TotalDebit = e.TotalDebit.Add(e.LineItems[i].Debit)
		e.TotalCredit = e.TotalCredit.Add(e.LineItems[i].Credit)
	}
	e.IsBalanced = e.TotalDebit.Equal(e.TotalCredit)
}

// Validate checks line shape and the double-entry invariant.
func (e *JournalEntry) Validate() error {
	if len(e.LineItems) < 2 {
		return ErrJournalMinLines
	}
	for _, line := range e.LineItems {
		if err := line.Validate(); err != nil {
			return err
		}
	}
	e.ComputeTotals()
	if !e.IsBalanced {
		return fmt.Errorf("%w: debits %s, credits %s", ErrJournalUnbalanced, e.TotalDebit, e.TotalCredit)
	}
	return nil
}

// Post validates the entry and moves it from draft to posted.
func (e *JournalEntry) Post(userID string, at time.Time) error {
	if e.Status == Posted {
		return ErrJournalPosted
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.Status = Posted
	e.PostedDate = &at
	e.PostedBy = userID
	return nil
}

// BalanceDeltas aggregates the per-account effect of all lines.
func (e *JournalEntry) BalanceDeltas() map[string]BalanceDelta {
	deltas := make(map[string]BalanceDelta, len(e.LineItems))
	for _, line := range e.LineItems {
		deltas[line.AccountID] = deltas[line.AccountID].Add(line.Delta())
	}
	return deltas
}

// ReversalLines mirrors every line, swapping debit and credit.
func (e *JournalEntry) ReversalLines(description string) []LineItem {
	lines := make([]LineItem, len(e.LineItems))
	for i, line := range e.LineItems {
		lines[i] = LineItem{
			AccountID:   line.AccountID,
			Description: description,
			Debit:       line.Credit,
			Credit:      line.Debit,
		}
	}
	return lines
}
