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

type bankTransactionService struct {
	BaseService
	bankRepo  portsrepo.BankAccountRepository
	txnRepo   portsrepo.BankTransactionRepository
	posting   portssvc.PostingSvc
	sequences *sequenceAllocator
}

// NewBankTransactionService creates the service that records cash movements and
// hands GL-linked ones to the posting engine.
func NewBankTransactionService(
	bankRepo portsrepo.BankAccountRepository,
	txnRepo portsrepo.BankTransactionRepository,
	sequenceRepo portsrepo.SequenceRepository,
	posting portssvc.PostingSvc,
	base BaseService,
) portssvc.BankTransactionSvcFacade {
	return &bankTransactionService{
		BaseService: base,
		bankRepo:    bankRepo,
		txnRepo:     txnRepo,
		posting:     posting,
		sequences:   newSequenceAllocator(sequenceRepo),
	}
}

var _ portssvc.BankTransactionSvcFacade = (*bankTransactionService)(nil)

// CreateBankTransaction records the movement and adjusts the cash balance. A GL
// posting failure is logged and leaves the cash record in place.
func (s *bankTransactionService) CreateBankTransaction(ctx context.Context, actor domain.Actor, req dto.CreateBankTransactionRequest) (*domain.BankTransaction, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransactionsCreate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("amount must be greater than zero")
	}
	if err := domain.ValidateAmountScale("amount", req.Amount); err != nil {
		return nil, err
	}
	if req.TransactionType == domain.TxTransfer {
		return nil, apperrors.Validation("use a bank transfer to move money between accounts")
	}

	var txn domain.BankTransaction
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{req.BankAccountID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		bank := locked[req.BankAccountID]
		if !bank.IsActive {
			return apperrors.Validation("bank account %s is inactive", bank.AccountName)
		}

		number, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqBankTransaction)
		if err != nil {
			return err
		}
		now := s.Now()
		txn = domain.BankTransaction{
			TransactionID:     uuid.NewString(),
			OrganizationID:    actor.OrganizationID,
			BankAccountID:     bank.BankAccountID,
			TransactionNumber: number,
			TransactionDate:   req.TransactionDate,
			TransactionType:   req.TransactionType,
			Direction:         domain.DirectionFor(req.TransactionType),
			Amount:            req.Amount,
			Description:       strings.TrimSpace(req.Description),
			Category:          strings.TrimSpace(req.Category),
			Reference:         strings.TrimSpace(req.Reference),
			AuditFields:       domain.NewAuditFields(actor.UserID, now),
		}
		if err := s.txnRepo.SaveBankTransaction(ctx, txn); err != nil {
			return err
		}
		if err := s.bankRepo.AdjustBankBalance(ctx, actor.OrganizationID, bank.BankAccountID, txn.SignedAmount(), actor.UserID, now); err != nil {
			return err
		}

		if bank.IsGLLinked() {
			if entryID, ok := s.postToLedger(ctx, actor, txn, *bank.GLAccountID); ok {
				txn.JournalEntryID = &entryID
			}
		}
		s.RecordAudit(ctx, actor, "create", "bank_transaction", txn.TransactionID, nil, txn)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to create bank transaction")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.Bool("posted", txn.JournalEntryID != nil))
	return &txn, nil
}

// postToLedger posts txn and links the entry in a savepoint. ok is false when
// nothing was posted.
func (s *bankTransactionService) postToLedger(ctx context.Context, actor domain.Actor, txn domain.BankTransaction, glAccountID string) (entryID string, ok bool) {
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.posting.PostBankTransaction(ctx, actor, dto.PostBankTransactionInput{
			TransactionID:     txn.TransactionID,
			TransactionNumber: txn.TransactionNumber,
			TransactionDate:   txn.TransactionDate,
			Description:       txn.Description,
			BankAccountGLID:   glAccountID,
			Amount:            txn.Amount,
			TransactionType:   txn.TransactionType,
			Category:          txn.Category,
		})
		if err != nil {
			return err
		}
		entryID = entry.EntryID
		return s.txnRepo.SetJournalEntryID(ctx, actor.OrganizationID, []string{txn.TransactionID}, entryID, actor.UserID, s.Now())
	})
	if err != nil {
		s.LogWarn(ctx, "Bank transaction recorded without a journal entry",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))
		return "", false
	}
	return entryID, true
}

func (s *bankTransactionService) GetBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.BankTransaction, error) {
	txn, err := s.txnRepo.FindBankTransactionByID(ctx, actor.OrganizationID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Transaction")
		}
		s.LogError(ctx, err, "Failed to find bank transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *bankTransactionService) ListBankTransactions(ctx context.Context, actor domain.Actor, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, *string, error) {
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	txns, next, err := s.txnRepo.ListBankTransactions(ctx, actor.OrganizationID, portsrepo.ListBankTransactionsFilter{
		BankAccountID: params.BankAccountID,
		Unreconciled:  params.Unreconciled,
		Limit:         params.Limit,
		NextToken:     params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank transactions")
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.BankTransaction{}
	}
	return txns, next, nil
}

// UpdateBankTransaction edits descriptive fields. Amount and type are fixed once
// recorded; delete and re-create the transaction to change them.
func (s *bankTransactionService) UpdateBankTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.UpdateBankTransactionRequest) (*domain.BankTransaction, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransactionsUpdate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	var updated domain.BankTransaction
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.GetBankTransaction(ctx, actor, transactionID)
		if err != nil {
			return err
		}
		if req.Amount != nil && !req.Amount.Equal(txn.Amount) {
			return apperrors.Validation("amount of %s cannot be changed; delete and re-create the transaction", txn.TransactionNumber)
		}
		if req.TransactionType != nil && *req.TransactionType != txn.TransactionType {
			return apperrors.Validation("type of %s cannot be changed; delete and re-create the transaction", txn.TransactionNumber)
		}
		before := *txn

		if req.TransactionDate != nil && !req.TransactionDate.IsZero() {
			txn.TransactionDate = *req.TransactionDate
		}
		if req.Description != nil {
			txn.Description = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			txn.Category = strings.TrimSpace(*req.Category)
		}
		if req.Reference != nil {
			txn.Reference = strings.TrimSpace(*req.Reference)
		}
		txn.Touch(actor.UserID, s.Now())

		if err := s.txnRepo.UpdateBankTransactionDetails(ctx, *txn); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "update", "bank_transaction", txn.TransactionID, before, *txn)
		updated = *txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBankTransaction soft-deletes the transaction, undoes its cash effect and
// reverses its journal entry when one was posted.
func (s *bankTransactionService) DeleteBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) error {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransactionsDelete); err != nil {
		return err
	}

	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.GetBankTransaction(ctx, actor, transactionID)
		if err != nil {
			return err
		}
		if txn.TransferID != nil {
			return apperrors.Validation("%s is part of a transfer; delete the transfer instead", txn.TransactionNumber)
		}
		if txn.IsReconciled {
			return apperrors.Validation("%s is reconciled and cannot be deleted", txn.TransactionNumber)
		}

		if _, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{txn.BankAccountID}); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		now := s.Now()
		if err := s.bankRepo.AdjustBankBalance(ctx, actor.OrganizationID, txn.BankAccountID, txn.SignedAmount().Neg(), actor.UserID, now); err != nil {
			return err
		}
		if err := s.txnRepo.SoftDeleteBankTransactions(ctx, actor.OrganizationID, []string{txn.TransactionID}, actor.UserID, now); err != nil {
			return err
		}
		if txn.JournalEntryID != nil {
			if _, err := s.posting.ReverseEntry(ctx, actor, *txn.JournalEntryID, "deleted "+txn.TransactionNumber); err != nil {
				return err
			}
		}
		s.RecordAudit(ctx, actor, "delete", "bank_transaction", txn.TransactionID, *txn, nil)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete bank transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}

	s.LogInfo(ctx, "Bank transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

// ReconcileBankTransaction flags a single transaction as cleared. No balance changes.
func (s *bankTransactionService) ReconcileBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.BankTransaction, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransactionsReconcile); err != nil {
		return nil, err
	}

	var result domain.BankTransaction
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		txn, err := s.GetBankTransaction(ctx, actor, transactionID)
		if err != nil {
			return err
		}
		if txn.IsReconciled {
			result = *txn
			return nil
		}
		now := s.Now()
		if _, err := s.txnRepo.MarkReconciled(ctx, actor.OrganizationID, []string{transactionID}, now, actor.UserID); err != nil {
			return err
		}
		before := *txn
		txn.IsReconciled = true
		txn.ReconciledDate = &now
		txn.Touch(actor.UserID, now)
		s.RecordAudit(ctx, actor, "reconcile", "bank_transaction", txn.TransactionID, before, *txn)
		result = *txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
