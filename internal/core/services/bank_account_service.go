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
	"github.com/shopspring/decimal"
)

type bankAccountService struct {
	BaseService
	bankRepo    portsrepo.BankAccountRepository
	accountRepo portsrepo.AccountReader
}

// NewBankAccountService creates the bank account registry.
func NewBankAccountService(bankRepo portsrepo.BankAccountRepository, accountRepo portsrepo.AccountReader, base BaseService) portssvc.BankAccountSvcFacade {
	return &bankAccountService{BaseService: base, bankRepo: bankRepo, accountRepo: accountRepo}
}

var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

func (s *bankAccountService) CreateBankAccount(ctx context.Context, actor domain.Actor, req dto.CreateBankAccountRequest) (*domain.BankAccount, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermBankAccountsCreate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	now := s.Now()
	account := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		OrganizationID: actor.OrganizationID,
		AccountNumber:  strings.TrimSpace(req.AccountNumber),
		AccountName:    strings.TrimSpace(req.AccountName),
		BankName:       strings.TrimSpace(req.BankName),
		AccountType:    req.AccountType,
		CurrentBalance: decimal.Zero,
		IsPrimary:      req.IsPrimary,
		IsActive:       true,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}

	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		glID, err := s.resolveGLLink(ctx, actor.OrganizationID, req.GLAccountID)
		if err != nil {
			return err
		}
		account.GLAccountID = glID

		if account.IsPrimary {
			if err := s.bankRepo.ClearPrimary(ctx, actor.OrganizationID, account.BankAccountID, actor.UserID, now); err != nil {
				return err
			}
		}
		if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "create", "bank_account", account.BankAccountID, nil, account)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to create bank account")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// resolveGLLink returns nil for an absent or empty link and otherwise requires an
// active asset account of the organization.
func (s *bankAccountService) resolveGLLink(ctx context.Context, orgID string, glAccountID *string) (*string, error) {
	if glAccountID == nil || strings.TrimSpace(*glAccountID) == "" {
		return nil, nil
	}
	id := strings.TrimSpace(*glAccountID)
	gl, err := s.accountRepo.FindAccountByID(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("GL account %s not found", id)
		}
		return nil, err
	}
	if gl.AccountType != domain.Asset {
		return nil, apperrors.Validation("GL account %s must be an asset account, got %s", gl.Code, gl.AccountType)
	}
	if !gl.IsActive {
		return nil, apperrors.Validation("GL account %s is inactive", gl.Code)
	}
	return &id, nil
}

func (s *bankAccountService) GetBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string) (*domain.BankAccount, error) {
	account, err := s.bankRepo.FindBankAccountByID(ctx, actor.OrganizationID, bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Bank account")
		}
		s.LogError(ctx, err, "Failed to find bank account", slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	return account, nil
}

func (s *bankAccountService) ListBankAccounts(ctx context.Context, actor domain.Actor) ([]domain.BankAccount, error) {
	accounts, err := s.bankRepo.ListBankAccounts(ctx, actor.OrganizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts")
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.BankAccount{}
	}
	return accounts, nil
}

func (s *bankAccountService) UpdateBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string, req dto.UpdateBankAccountRequest) (*domain.BankAccount, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermBankAccountsUpdate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	var updated domain.BankAccount
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.bankRepo.FindBankAccountsForUpdate(ctx, actor.OrganizationID, []string{bankAccountID})
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NotFound("Bank account")
			}
			return err
		}
		account := locked[bankAccountID]
		before := account
		now := s.Now()

		if req.AccountName != nil {
			if strings.TrimSpace(*req.AccountName) == "" {
				return apperrors.Validation("account name cannot be empty")
			}
			account.AccountName = strings.TrimSpace(*req.AccountName)
		}
		if req.BankName != nil {
			account.BankName = strings.TrimSpace(*req.BankName)
		}
		if req.GLAccountID != nil {
			glID, err := s.resolveGLLink(ctx, actor.OrganizationID, req.GLAccountID)
			if err != nil {
				return err
			}
			account.GLAccountID = glID
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		if req.IsPrimary != nil {
			if *req.IsPrimary && !account.IsPrimary {
				if err := s.bankRepo.ClearPrimary(ctx, actor.OrganizationID, account.BankAccountID, actor.UserID, now); err != nil {
					return err
				}
			}
			account.IsPrimary = *req.IsPrimary
		}
		account.Touch(actor.UserID, now)

		if err := s.bankRepo.UpdateBankAccount(ctx, account); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "update", "bank_account", account.BankAccountID, before, account)
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBankAccount soft-deletes the account. Its transactions stay for history.
func (s *bankAccountService) DeleteBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string) error {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermBankAccountsDelete); err != nil {
		return err
	}
	return s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.GetBankAccount(ctx, actor, bankAccountID)
		if err != nil {
			return err
		}
		if err := s.bankRepo.SoftDeleteBankAccount(ctx, actor.OrganizationID, bankAccountID, actor.UserID, s.Now()); err != nil {
			s.LogError(ctx, err, "Failed to delete bank account", slog.String("bank_account_id", bankAccountID))
			return err
		}
		s.RecordAudit(ctx, actor, "delete", "bank_account", bankAccountID, *account, nil)
		s.LogInfo(ctx, "Bank account deleted", slog.String("bank_account_id", bankAccountID))
		return nil
	})
}
