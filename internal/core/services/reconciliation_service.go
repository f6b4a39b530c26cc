package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/google/uuid"
)

type reconciliationService struct {
	BaseService
	recRepo   portsrepo.ReconciliationRepository
	bankRepo  portsrepo.BankAccountRepository
	txnRepo   portsrepo.BankTransactionRepository
	sequences *sequenceAllocator
}

// NewReconciliationService creates the bank reconciliation service.
func NewReconciliationService(
	recRepo portsrepo.ReconciliationRepository,
	bankRepo portsrepo.BankAccountRepository,
	txnRepo portsrepo.BankTransactionRepository,
	sequenceRepo portsrepo.SequenceRepository,
	base BaseService,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		BaseService: base,
		recRepo:     recRepo,
		bankRepo:    bankRepo,
		txnRepo:     txnRepo,
		sequences:   newSequenceAllocator(sequenceRepo),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) CreateBankReconciliation(ctx context.Context, actor domain.Actor, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermReconciliationsCreate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmountScale("statement balance", req.StatementBalance); err != nil {
		return nil, err
	}

	var rec domain.BankReconciliation
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		bank, err := s.bankRepo.FindBankAccountByID(ctx, actor.OrganizationID, req.BankAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		if !bank.IsActive {
			return apperrors.Validation("bank account %s is inactive", bank.AccountName)
		}
		number, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqReconciliation)
		if err != nil {
			return err
		}

		rec = domain.BankReconciliation{
			ReconciliationID:         uuid.NewString(),
			OrganizationID:           actor.OrganizationID,
			BankAccountID:            bank.BankAccountID,
			ReconciliationNumber:     number,
			StatementDate:            req.StatementDate,
			StatementBalance:         req.StatementBalance,
			BookBalance:              bank.CurrentBalance,
			Difference:               domain.NewDifference(req.StatementBalance, bank.CurrentBalance),
			ReconciledTransactionIDs: []string{},
			Status:                   domain.ReconciliationInProgress,
			Notes:                    strings.TrimSpace(req.Notes),
			AuditFields:              domain.NewAuditFields(actor.UserID, s.Now()),
		}
		if err := s.recRepo.SaveReconciliation(ctx, rec); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "create", "bank_reconciliation", rec.ReconciliationID, nil, rec)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to create reconciliation")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Reconciliation started",
		slog.String("reconciliation_number", rec.ReconciliationNumber),
		slog.String("difference", rec.Difference.String()))
	return &rec, nil
}

// CompleteBankReconciliation marks the listed transactions reconciled and stamps the
// bank account with the statement date and balance. The book balance recorded at
// creation is kept; the live balance is stored alongside as ClosingBookBalance.
func (s *reconciliationService) CompleteBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string, req dto.CompleteReconciliationRequest) (*domain.BankReconciliation, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermReconciliationsComplete); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}
	ids := uniqueIDs(req.TransactionIDs)

	var rec domain.BankReconciliation
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.lockInProgress(ctx, actor.OrganizationID, reconciliationID)
		if err != nil {
			return err
		}
		rec = *current

		if len(ids) > 0 {
			txns, err := s.txnRepo.FindBankTransactionsByIDs(ctx, actor.OrganizationID, ids)
			if err != nil {
				return err
			}
			for _, id := range ids {
				txn, ok := txns[id]
				if !ok {
					return apperrors.Validation("transaction %s not found", id)
				}
				if txn.BankAccountID != rec.BankAccountID {
					return apperrors.Validation("transaction %s belongs to another bank account", txn.TransactionNumber)
				}
			}
		}

		locked, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{rec.BankAccountID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		closing := locked[rec.BankAccountID].CurrentBalance

		now := s.Now()
		if len(ids) > 0 {
			if _, err := s.txnRepo.MarkReconciled(ctx, actor.OrganizationID, ids, now, actor.UserID); err != nil {
				return err
			}
		}
		if err := s.bankRepo.UpdateReconciliationInfo(ctx, actor.OrganizationID, rec.BankAccountID, rec.StatementDate, rec.StatementBalance, actor.UserID, now); err != nil {
			return err
		}

		before := rec
		rec.Status = domain.ReconciliationCompleted
		rec.ReconciledTransactionIDs = ids
		rec.ClosingBookBalance = &closing
		rec.CompletedAt = &now
		rec.CompletedBy = actor.UserID
		rec.Touch(actor.UserID, now)
		if err := s.recRepo.UpdateReconciliation(ctx, rec); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "complete", "bank_reconciliation", rec.ReconciliationID, before, rec)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to complete reconciliation", slog.String("reconciliation_id", reconciliationID))
		}
		return nil, err
	}

	if !rec.ClosingBookBalance.Equal(rec.BookBalance) {
		s.LogWarn(ctx, "Book balance moved during reconciliation",
			slog.String("reconciliation_number", rec.ReconciliationNumber),
			slog.String("book_balance", rec.BookBalance.String()),
			slog.String("closing_book_balance", rec.ClosingBookBalance.String()))
	}
	s.LogInfo(ctx, "Reconciliation completed",
		slog.String("reconciliation_number", rec.ReconciliationNumber),
		slog.Int("transactions", len(ids)))
	return &rec, nil
}

func (s *reconciliationService) CancelBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string) (*domain.BankReconciliation, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermReconciliationsCreate); err != nil {
		return nil, err
	}

	var rec domain.BankReconciliation
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.lockInProgress(ctx, actor.OrganizationID, reconciliationID)
		if err != nil {
			return err
		}
		before := *current
		rec = *current
		rec.Status = domain.ReconciliationCancelled
		rec.Touch(actor.UserID, s.Now())
		if err := s.recRepo.UpdateReconciliation(ctx, rec); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "cancel", "bank_reconciliation", rec.ReconciliationID, before, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *reconciliationService) lockInProgress(ctx context.Context, orgID, reconciliationID string) (*domain.BankReconciliation, error) {
	rec, err := s.recRepo.FindReconciliationForUpdate(ctx, orgID, reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Reconciliation")
		}
		return nil, err
	}
	if rec.Status != domain.ReconciliationInProgress {
		return nil, apperrors.Conflict("reconciliation %s is %s", rec.ReconciliationNumber, rec.Status)
	}
	return rec, nil
}

func (s *reconciliationService) GetBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string) (*domain.BankReconciliation, error) {
	rec, err := s.recRepo.FindReconciliationByID(ctx, actor.OrganizationID, reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Reconciliation")
		}
		s.LogError(ctx, err, "Failed to find reconciliation", slog.String("reconciliation_id", reconciliationID))
		return nil, err
	}
	return rec, nil
}

func (s *reconciliationService) ListBankReconciliations(ctx context.Context, actor domain.Actor, params dto.ListReconciliationsParams) ([]domain.BankReconciliation, error) {
	recs, err := s.recRepo.ListReconciliations(ctx, actor.OrganizationID, params.BankAccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliations")
		return nil, err
	}
	if recs == nil {
		recs = []domain.BankReconciliation{}
	}
	return recs, nil
}

// uniqueIDs drops blanks and duplicates, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
