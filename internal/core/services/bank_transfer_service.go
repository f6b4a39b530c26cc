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

type bankTransferService struct {
	BaseService
	bankRepo     portsrepo.BankAccountRepository
	txnRepo      portsrepo.BankTransactionRepository
	transferRepo portsrepo.BankTransferRepository
	posting      portssvc.PostingSvc
	sequences    *sequenceAllocator
}

// NewBankTransferService creates the service that moves cash between bank accounts.
func NewBankTransferService(
	bankRepo portsrepo.BankAccountRepository,
	txnRepo portsrepo.BankTransactionRepository,
	transferRepo portsrepo.BankTransferRepository,
	sequenceRepo portsrepo.SequenceRepository,
	posting portssvc.PostingSvc,
	base BaseService,
) portssvc.BankTransferSvcFacade {
	return &bankTransferService{
		BaseService:  base,
		bankRepo:     bankRepo,
		txnRepo:      txnRepo,
		transferRepo: transferRepo,
		posting:      posting,
		sequences:    newSequenceAllocator(sequenceRepo),
	}
}

var _ portssvc.BankTransferSvcFacade = (*bankTransferService)(nil)

// CreateBankTransfer writes an outflow leg, an inflow leg and the TRF record that
// links them. Funds are checked under row lock before anything is written.
func (s *bankTransferService) CreateBankTransfer(ctx context.Context, actor domain.Actor, req dto.CreateBankTransferRequest) (*domain.BankTransfer, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransfersCreate); err != nil {
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
	if req.FromBankAccountID == req.ToBankAccountID {
		return nil, apperrors.Validation("cannot transfer to the same account")
	}

	var transfer domain.BankTransfer
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{req.FromBankAccountID, req.ToBankAccountID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		from, to := locked[req.FromBankAccountID], locked[req.ToBankAccountID]
		for _, b := range []domain.BankAccount{from, to} {
			if !b.IsActive {
				return apperrors.Validation("bank account %s is inactive", b.AccountName)
			}
		}
		if from.CurrentBalance.LessThan(req.Amount) {
			return apperrors.Validation("insufficient balance in %s: available %s, requested %s",
				from.AccountName, from.CurrentBalance.StringFixed(2), req.Amount.StringFixed(2))
		}

		transferNumber, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqBankTransfer)
		if err != nil {
			return err
		}
		outNumber, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqBankTransaction)
		if err != nil {
			return err
		}
		inNumber, err := s.sequences.Next(ctx, actor.OrganizationID, domain.SeqBankTransaction)
		if err != nil {
			return err
		}

		now := s.Now()
		audit := domain.NewAuditFields(actor.UserID, now)
		description := strings.TrimSpace(req.Description)
		transfer = domain.BankTransfer{
			TransferID:        uuid.NewString(),
			OrganizationID:    actor.OrganizationID,
			TransferNumber:    transferNumber,
			FromBankAccountID: from.BankAccountID,
			ToBankAccountID:   to.BankAccountID,
			Amount:            req.Amount,
			TransferDate:      req.TransferDate,
			Description:       description,
			FromTransactionID: uuid.NewString(),
			ToTransactionID:   uuid.NewString(),
			AuditFields:       audit,
		}
		legs := []domain.BankTransaction{
			newTransferLeg(transfer, transfer.FromTransactionID, from.BankAccountID, outNumber, domain.Outflow, "Transfer to "+to.AccountName, audit),
			newTransferLeg(transfer, transfer.ToTransactionID, to.BankAccountID, inNumber, domain.Inflow, "Transfer from "+from.AccountName, audit),
		}

		if err := s.transferRepo.SaveBankTransfer(ctx, transfer); err != nil {
			return err
		}
		for _, leg := range legs {
			if err := s.txnRepo.SaveBankTransaction(ctx, leg); err != nil {
				return err
			}
			if err := s.bankRepo.AdjustBankBalance(ctx, actor.OrganizationID, leg.BankAccountID, leg.SignedAmount(), actor.UserID, now); err != nil {
				return err
			}
		}

		if from.IsGLLinked() && to.IsGLLinked() {
			if entryID, ok := s.postToLedger(ctx, actor, transfer, *from.GLAccountID, *to.GLAccountID); ok {
				transfer.JournalEntryID = &entryID
			}
		}
		s.RecordAudit(ctx, actor, "create", "bank_transfer", transfer.TransferID, nil, transfer)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to create bank transfer")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank transfer created",
		slog.String("transfer_id", transfer.TransferID),
		slog.String("transfer_number", transfer.TransferNumber),
		slog.Bool("posted", transfer.JournalEntryID != nil))
	return &transfer, nil
}

func newTransferLeg(t domain.BankTransfer, id, bankAccountID, number string, dir domain.CashDirection, fallbackDesc string, audit domain.AuditFields) domain.BankTransaction {
	desc := t.Description
	if desc == "" {
		desc = fallbackDesc
	}
	transferID := t.TransferID
	return domain.BankTransaction{
		TransactionID:     id,
		OrganizationID:    t.OrganizationID,
		BankAccountID:     bankAccountID,
		TransactionNumber: number,
		TransactionDate:   t.TransferDate,
		TransactionType:   domain.TxTransfer,
		Direction:         dir,
		Amount:            t.Amount,
		Description:       desc,
		Reference:         t.TransferNumber,
		TransferID:        &transferID,
		AuditFields:       audit,
	}
}

// postToLedger posts the transfer and links the entry to the transfer and both
// legs inside a savepoint. ok is false when nothing was posted.
func (s *bankTransferService) postToLedger(ctx context.Context, actor domain.Actor, t domain.BankTransfer, fromGL, toGL string) (entryID string, ok bool) {
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := s.posting.PostTransfer(ctx, actor, dto.PostTransferInput{
			TransferID:      t.TransferID,
			TransferNumber:  t.TransferNumber,
			TransferDate:    t.TransferDate,
			Description:     t.Description,
			FromGLAccountID: fromGL,
			ToGLAccountID:   toGL,
			Amount:          t.Amount,
		})
		if err != nil {
			return err
		}
		entryID = entry.EntryID
		now := s.Now()
		if err := s.txnRepo.SetJournalEntryID(ctx, actor.OrganizationID, []string{t.FromTransactionID, t.ToTransactionID}, entryID, actor.UserID, now); err != nil {
			return err
		}
		return s.transferRepo.SetTransferJournalEntryID(ctx, actor.OrganizationID, t.TransferID, entryID, actor.UserID, now)
	})
	if err != nil {
		s.LogWarn(ctx, "Bank transfer recorded without a journal entry",
			slog.String("transfer_id", t.TransferID),
			slog.String("error", err.Error()))
		return "", false
	}
	return entryID, true
}

func (s *bankTransferService) GetBankTransfer(ctx context.Context, actor domain.Actor, transferID string) (*domain.BankTransfer, error) {
	transfer, err := s.transferRepo.FindBankTransferByID(ctx, actor.OrganizationID, transferID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Transfer")
		}
		s.LogError(ctx, err, "Failed to find bank transfer", slog.String("transfer_id", transferID))
		return nil, err
	}
	return transfer, nil
}

func (s *bankTransferService) ListBankTransfers(ctx context.Context, actor domain.Actor, params dto.ListBankTransfersParams) ([]domain.BankTransfer, *string, error) {
	if params.Limit <= 0 {
		params.Limit = defaultPageSize
	}
	transfers, next, err := s.transferRepo.ListBankTransfers(ctx, actor.OrganizationID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank transfers")
		return nil, nil, err
	}
	if transfers == nil {
		transfers = []domain.BankTransfer{}
	}
	return transfers, next, nil
}

// DeleteBankTransfer restores both balances, soft-deletes the transfer and its
// legs, and reverses the journal entry when one was posted.
func (s *bankTransferService) DeleteBankTransfer(ctx context.Context, actor domain.Actor, transferID string) error {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermTransfersDelete); err != nil {
		return err
	}

	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		transfer, err := s.GetBankTransfer(ctx, actor, transferID)
		if err != nil {
			return err
		}
		if _, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{transfer.FromBankAccountID, transfer.ToBankAccountID}); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}

		legIDs := []string{transfer.FromTransactionID, transfer.ToTransactionID}
		legs, err := s.txnRepo.FindBankTransactionsByIDs(ctx, actor.OrganizationID, legIDs)
		if err != nil {
			return err
		}
		for _, leg := range legs {
			if leg.IsReconciled {
				return apperrors.Validation("%s is reconciled; the transfer cannot be deleted", leg.TransactionNumber)
			}
		}

		now := s.Now()
		if err := s.bankRepo.AdjustBankBalance(ctx, actor.OrganizationID, transfer.FromBankAccountID, transfer.Amount, actor.UserID, now); err != nil {
			return err
		}
		if err := s.bankRepo.AdjustBankBalance(ctx, actor.OrganizationID, transfer.ToBankAccountID, transfer.Amount.Neg(), actor.UserID, now); err != nil {
			return err
		}
		if err := s.txnRepo.SoftDeleteBankTransactions(ctx, actor.OrganizationID, legIDs, actor.UserID, now); err != nil {
			return err
		}
		if err := s.transferRepo.SoftDeleteBankTransfer(ctx, actor.OrganizationID, transfer.TransferID, actor.UserID, now); err != nil {
			return err
		}
		if transfer.JournalEntryID != nil {
			if _, err := s.posting.ReverseEntry(ctx, actor, *transfer.JournalEntryID, "deleted "+transfer.TransferNumber); err != nil {
				return err
			}
		}
		s.RecordAudit(ctx, actor, "delete", "bank_transfer", transfer.TransferID, *transfer, nil)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete bank transfer", slog.String("transfer_id", transferID))
		}
		return err
	}

	s.LogInfo(ctx, "Bank transfer deleted", slog.String("transfer_id", transferID))
	return nil
}
