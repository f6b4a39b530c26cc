package dto

import (
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a manual journal entry.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest defines a user-authored journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time            `json:"entryDate" binding:"required"`
	Description string               `json:"description" binding:"required,max=500"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseJournalEntryRequest carries the reason recorded on the reversing entry.
type ReverseJournalEntryRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	ReferenceType string  `form:"referenceType"`
	ReferenceID   string  `form:"referenceID"`
	Limit         int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken     *string `form:"nextToken"`
}

// PostBankTransactionInput is what the posting engine needs to record one cash movement.
type PostBankTransactionInput struct {
	TransactionID     string                     `binding:"required"`
	TransactionNumber string                     `binding:"required"`
	TransactionDate   time.Time                  `binding:"required"`
	Description       string                     `binding:"max=500"`
	BankAccountGLID   string                     `binding:"required"`
	Amount            decimal.Decimal            `binding:"-"`
	TransactionType   domain.BankTransactionType `binding:"required,oneof=deposit withdrawal transfer fee interest other"`
	Category          string                     `binding:"max=200"`
}

// PostTransferInput is what the posting engine needs to record a transfer between two bank GL accounts.
type PostTransferInput struct {
	TransferID      string          `binding:"required"`
	TransferNumber  string          `binding:"required"`
	TransferDate    time.Time       `binding:"required"`
	Description     string          `binding:"max=500"`
	FromGLAccountID string          `binding:"required"`
	ToGLAccountID   string          `binding:"required"`
	Amount          decimal.Decimal `binding:"-"`
}

// JournalLineResponse is one line of a journal entry.
type JournalLineResponse struct {
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                `json:"entryID"`
	EntryNumber   string                `json:"entryNumber"`
	EntryDate     time.Time             `json:"entryDate"`
	EntryType     domain.EntryType      `json:"entryType"`
	Description   string                `json:"description"`
	ReferenceType string                `json:"referenceType,omitempty"`
	ReferenceID   string                `json:"referenceID,omitempty"`
	Lines         []JournalLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	IsBalanced    bool                  `json:"isBalanced"`
	Status        domain.JournalStatus  `json:"status"`
	PostedDate    *time.Time            `json:"postedDate,omitempty"`
	PostedBy      string                `json:"postedBy,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.LineItems))
	for i, l := range e.LineItems {
		lines[i] = JournalLineResponse{
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return JournalEntryResponse{
		EntryID:       e.EntryID,
		EntryNumber:   e.EntryNumber,
		EntryDate:     e.EntryDate,
		EntryType:     e.EntryType,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Lines:         lines,
		TotalDebit:    e.TotalDebit,
		TotalCredit:   e.TotalCredit,
		IsBalanced:    e.IsBalanced,
		Status:        e.Status,
		PostedDate:    e.PostedDate,
		PostedBy:      e.PostedBy,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}
