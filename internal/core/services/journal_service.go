package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books/internal/dto"
)

const defaultPageSize = 20

// PostManualEntry posts a user-authored multi-line entry immediately.
func (s *ledgerService) PostManualEntry(ctx context.Context, actor domain.Actor, req dto.CreateJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermJournalEntriesCreate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	lines := make([]domain.LineItem, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.LineItem{
			AccountID:   l.AccountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}

	var entry *domain.JournalEntry
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		e := s.newEntry(actor, domain.EntryManual, req.EntryDate, req.Description, "", "", lines)
		if err := s.postEntry(ctx, actor, &e); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "create", "journal_entry", e.EntryID, nil, e)
		entry = &e
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to post manual journal entry")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Manual journal entry posted", slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// ReverseJournalEntry reverses a manual entry on a user's request. Entries produced
// by bank activity are reversed by deleting their source instead.
func (s *ledgerService) ReverseJournalEntry(ctx context.Context, actor domain.Actor, entryID string, req dto.ReverseJournalEntryRequest) (*domain.JournalEntry, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermJournalEntriesReverse); err != nil {
		return nil, err
	}
	original, err := s.GetJournalEntry(ctx, actor, entryID)
	if err != nil {
		return nil, err
	}
	switch original.ReferenceType {
	case domain.RefBankTransaction, domain.RefBankTransfer:
		return nil, apperrors.Validation("entry %s was posted from bank activity; delete the %s instead", original.EntryNumber, original.ReferenceType)
	}
	return s.reverse(ctx, actor, entryID, req.Reason, domain.EntryManual)
}

func (s *ledgerService) GetJournalEntry(ctx context.Context, actor domain.Actor, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, actor.OrganizationID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Journal entry")
		}
		s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListJournalEntries(ctx context.Context, actor domain.Actor, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	entries, next, err := s.journalRepo.ListJournalEntries(ctx, actor.OrganizationID, portsrepo.ListJournalEntriesFilter{
		ReferenceType: params.ReferenceType,
		ReferenceID:   params.ReferenceID,
		Limit:         params.Limit,
		NextToken:     params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, next, nil
}
