package services

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
)

// PostingSvc turns cash movements into posted journal entries.
// Callers are expected to have checked access already.
type PostingSvc interface {
	PostBankTransaction(ctx context.Context, actor domain.Actor, in dto.PostBankTransactionInput) (*domain.JournalEntry, error)
	PostTransfer(ctx context.Context, actor domain.Actor, in dto.PostTransferInput) (*domain.JournalEntry, error)

	// ReverseEntry posts a mirrored entry referencing entryID. The original is left untouched.
	ReverseEntry(ctx context.Context, actor domain.Actor, entryID, reason string) (*domain.JournalEntry, error)
}

// JournalSvc exposes journal entries to users.
type JournalSvc interface {
	PostManualEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error)
	ReverseJournalEntry(ctx context.Context, actor domain.Actor, entryID string, req dto.ReverseJournalEntryRequest) (*domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, actor domain.Actor, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)
}

// LedgerSvcFacade combines posting and journal access.
type LedgerSvcFacade interface {
	PostingSvc
	JournalSvc
}
