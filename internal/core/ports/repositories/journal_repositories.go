package repositories

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
)

// ListJournalEntriesFilter narrows ListJournalEntries.
type ListJournalEntriesFilter struct {
	ReferenceType string
	ReferenceID   string
	Limit         int
	NextToken     *string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalEntryByID retrieves an entry and its lines.
	FindJournalEntryByID(ctx context.Context, orgID, entryID string) (*domain.JournalEntry, error)

	// FindReversalOf returns the entry reversing entryID, or apperrors.ErrNotFound.
	FindReversalOf(ctx context.Context, orgID, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries returns entries newest first with their lines and a token for the next page.
	ListJournalEntries(ctx context.Context, orgID string, filter ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournalEntry inserts an entry with its lines. Balances are not touched.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
