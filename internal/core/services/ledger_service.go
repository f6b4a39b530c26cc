package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// contraDefault is the canonical contra account for a transaction type.
type contraDefault struct {
	accountType domain.AccountType
	subType     string
}

var contraDefaults = map[domain.BankTransactionType]contraDefault{
	domain.TxDeposit:    {domain.Revenue, domain.SubTypeSales},
	domain.TxInterest:   {domain.Revenue, domain.SubTypeInterestIncome},
	domain.TxWithdrawal: {domain.Expense, domain.SubTypeGeneral},
	domain.TxFee:        {domain.Expense, domain.SubTypeBankCharges},
	domain.TxOther:      {domain.Expense, domain.SubTypeOther},
}

type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	sequences   *sequenceAllocator
}

// NewLedgerService creates the posting engine and journal service.
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	sequenceRepo portsrepo.SequenceRepository,
	base BaseService,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: base,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		sequences:   newSequenceAllocator(sequenceRepo),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostBankTransaction records one non-transfer cash movement against the bank's GL
// account and a resolved contra account.
func (s *ledgerService) PostBankTransaction(ctx context.Context, actor domain.Actor, in dto.PostBankTransactionInput) (*domain.JournalEntry, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.Validation("amount must be greater than zero")
	}
	if err := domain.ValidateAmountScale("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.TransactionType == domain.TxTransfer {
		return nil, apperrors.Validation("transfers must be posted with PostTransfer")
	}

	var entry *domain.JournalEntry
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		bankGL, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, in.BankAccountGLID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank GL account")
			}
			return err
		}

		contra, err := s.resolveContraAccount(ctx, actor.OrganizationID, in.TransactionType, in.Category, bankGL.AccountID)
		if err != nil {
			return err
		}

		bankLine := domain.LineItem{AccountID: bankGL.AccountID, Description: in.Description}
		contraLine := domain.LineItem{AccountID: contra.AccountID, Description: in.Description}
		var lines []domain.LineItem
		if in.TransactionType.IsMoneyIn() {
			bankLine.Debit = in.Amount
			contraLine.Credit = in.Amount
			lines = []domain.LineItem{bankLine, contraLine}
		} else {
			contraLine.Debit = in.Amount
			bankLine.Credit = in.Amount
			lines = []domain.LineItem{contraLine, bankLine}
		}

		e := s.newEntry(actor, domain.EntryAutomated, in.TransactionDate,
			fmt.Sprintf("%s %s: %s", in.TransactionNumber, in.TransactionType, in.Description),
			domain.RefBankTransaction, in.TransactionID, lines)
		if err := s.postEntry(ctx, actor, &e); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "create", "journal_entry", e.EntryID, nil, e)
		entry = &e
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Bank transaction not posted",
			slog.String("transaction_id", in.TransactionID),
			slog.String("transaction_type", string(in.TransactionType)),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Bank transaction posted",
		slog.String("transaction_id", in.TransactionID),
		slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// resolveContraAccount picks the offsetting account: category name match, then the
// canonical default for the type, then any account on the right side.
func (s *ledgerService) resolveContraAccount(ctx context.Context, orgID string, txType domain.BankTransactionType, category, bankGLID string) (*domain.Account, error) {
	if category = strings.TrimSpace(category); category != "" {
		acc, err := s.accountRepo.FindAccountByName(ctx, orgID, category, bankGLID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		acc, err = s.accountRepo.FindAccountByNameContaining(ctx, orgID, category, bankGLID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogDebug(ctx, "No account matches category, using default", slog.String("category", category))
	}

	if def, ok := contraDefaults[txType]; ok {
		acc, err := s.accountRepo.FindAccountByTypeAndSubType(ctx, orgID, def.accountType, def.subType, bankGLID)
		if err == nil {
			return acc, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	side := domain.Expense
	if txType.IsMoneyIn() {
		side = domain.Revenue
	}
	acc, err := s.accountRepo.FindFirstAccountByType(ctx, orgID, side, bankGLID)
	if err == nil {
		return acc, nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Validation("No suitable GL account found for %s", txType)
	}
	return nil, err
}

// PostTransfer records a movement between two bank GL accounts: Dr destination, Cr source.
func (s *ledgerService) PostTransfer(ctx context.Context, actor domain.Actor, in dto.PostTransferInput) (*domain.JournalEntry, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.Validation("amount must be greater than zero")
	}
	if err := domain.ValidateAmountScale("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.FromGLAccountID == in.ToGLAccountID {
		return nil, apperrors.Validation("source and destination GL accounts must differ")
	}

	var entry *domain.JournalEntry
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		lines := []domain.LineItem{
			{AccountID: in.ToGLAccountID, Description: in.Description, Debit: in.Amount},
			{AccountID: in.FromGLAccountID, Description: in.Description, Credit: in.Amount},
		}
		e := s.newEntry(actor, domain.EntryAutomated, in.TransferDate,
			fmt.Sprintf("%s transfer: %s", in.TransferNumber, in.Description),
			domain.RefBankTransfer, in.TransferID, lines)
		if err := s.postEntry(ctx, actor, &e); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "create", "journal_entry", e.EntryID, nil, e)
		entry = &e
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Transfer not posted", slog.String("transfer_id", in.TransferID), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer posted", slog.String("transfer_id", in.TransferID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

// ReverseEntry posts an automated mirror of entryID.
func (s *ledgerService) ReverseEntry(ctx context.Context, actor domain.Actor, entryID, reason string) (*domain.JournalEntry, error) {
	return s.reverse(ctx, actor, entryID, reason, domain.EntryAutomated)
}

func (s *ledgerService) reverse(ctx context.Context, actor domain.Actor, entryID, reason string, entryType domain.EntryType) (*domain.JournalEntry, error) {
	var entry *domain.JournalEntry
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		original, err := s.journalRepo.FindJournalEntryByID(ctx, actor.OrganizationID, entryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Journal entry")
			}
			return err
		}
		if original.Status != domain.Posted {
			return apperrors.Validation("only posted entries can be reversed")
		}
		if original.ReferenceType == domain.RefJournalReversal {
			return apperrors.Validation("a reversing entry cannot itself be reversed")
		}
		if _, err := s.journalRepo.FindReversalOf(ctx, actor.OrganizationID, entryID); err == nil {
			return apperrors.Conflict("journal entry %s has already been reversed", original.EntryNumber)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		description := "Reversal of " + original.EntryNumber
		if reason = strings.TrimSpace(reason); reason != "" {
			description += ": " + reason
		}
		e := s.newEntry(actor, entryType, s.Now(), description,
			domain.RefJournalReversal, original.EntryID, original.ReversalLines(description))
		if err := s.postEntry(ctx, actor, &e); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "reverse", "journal_entry", original.EntryID, nil, e)
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed", slog.String("original_id", entryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

func (s *ledgerService) newEntry(actor domain.Actor, entryType domain.EntryType, date time.Time, description, refType, refID string, lines []domain.LineItem) domain.JournalEntry {
	now := s.Now()
	if date.IsZero() {
		date = now
	}
	return domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		EntryDate:      date,
		EntryType:      entryType,
		Description:    description,
		ReferenceType:  refType,
		ReferenceID:    refID,
		LineItems:      lines,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		Status:         domain.Draft,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}
}

// postEntry numbers, validates, stores and applies an entry. It must run inside a unit of work.
func (s *ledgerService) postEntry(ctx context.Context, actor domain.Actor, e *domain.JournalEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	deltas := e.BalanceDeltas()
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, actor.OrganizationID, accountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.Validation("journal entry references an unknown account")
		}
		return err
	}
	for _, id := range accountIDs {
		if acc := locked[id]; !acc.IsActive {
			return apperrors.Validation("account %s (%s) is inactive", acc.Code, acc.Name)
		}
	}

	number, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqJournalEntry)
	if err != nil {
		return err
	}
	e.EntryNumber = number

	now := s.Now()
	if err := e.Post(actor.UserID, now); err != nil {
		return err
	}
	if err := s.journalRepo.SaveJournalEntry(ctx, *e); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", e.EntryID))
		return err
	}
	if err := s.accountRepo.ApplyBalanceDeltas(ctx, actor.OrganizationID, deltas, actor.UserID, now); err != nil {
		s.LogError(ctx, err, "Failed to apply balance deltas", slog.String("entry_id", e.EntryID))
		return err
	}
	return nil
}
