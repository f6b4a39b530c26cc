package services

import (
	"context"
	"errors"
	"fmt"
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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, base BaseService) portssvc.AccountSvcFacade {
	return &accountService{BaseService: base, accountRepo: accountRepo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermAccountsCreate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	var parentID *string
	if req.ParentAccountID != nil && strings.TrimSpace(*req.ParentAccountID) != "" {
		id := strings.TrimSpace(*req.ParentAccountID)
		parentID = &id
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		OrganizationID:  actor.OrganizationID,
		Code:            strings.TrimSpace(req.Code),
		Name:            strings.TrimSpace(req.Name),
		AccountType:     req.AccountType,
		SubType:         req.SubType,
		ParentAccountID: parentID,
		Description:     req.Description,
		DebitBalance:    decimal.Zero,
		CreditBalance:   decimal.Zero,
		CurrentBalance:  decimal.Zero,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actor.UserID, now),
	}

	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		if parentID != nil {
			if _, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, *parentID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return apperrors.Validation("parent account %s not found", *parentID)
				}
				return err
			}
			if err := s.accountRepo.MarkAccountAsParent(ctx, actor.OrganizationID, *parentID, actor.UserID, now); err != nil {
				return err
			}
		}
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return apperrors.Conflict("account code %s already exists", account.Code)
			}
			return err
		}
		s.RecordAudit(ctx, actor, "create", "account", account.AccountID, nil, account)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to create account", slog.String("code", account.Code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, actor.OrganizationID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Account")
		}
		s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, actor.OrganizationID, portsrepo.ListAccountsFilter{
		AccountType:     domain.AccountType(params.AccountType),
		IncludeInactive: params.IncludeInactive,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermAccountsUpdate); err != nil {
		return nil, err
	}
	if err := ValidateInput(req); err != nil {
		return nil, err
	}

	var updated domain.Account
	err := s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.GetAccount(ctx, actor, accountID)
		if err != nil {
			return err
		}
		before := *account

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.Validation("account name cannot be empty")
			}
			account.Name = name
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.SubType != nil {
			account.SubType = *req.SubType
		}
		if req.IsActive != nil {
			if !*req.IsActive && account.IsSystemAccount {
				return apperrors.Validation("system account %s cannot be deactivated", account.Code)
			}
			account.IsActive = *req.IsActive
		}
		account.Touch(actor.UserID, s.Now())

		if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
			return err
		}
		s.RecordAudit(ctx, actor, "update", "account", account.AccountID, before, *account)
		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermAccountsDelete); err != nil {
		return err
	}

	return s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		account, err := s.GetAccount(ctx, actor, accountID)
		if err != nil {
			return err
		}
		if account.IsSystemAccount {
			return apperrors.Validation("system account %s cannot be deleted", account.Code)
		}
		used, err := s.accountRepo.HasJournalLines(ctx, actor.OrganizationID, accountID)
		if err != nil {
			return err
		}
		if used {
			return apperrors.Validation("account %s has journal entries and cannot be deleted", account.Code)
		}
		linked, err := s.accountRepo.HasLinkedBankAccounts(ctx, actor.OrganizationID, accountID)
		if err != nil {
			return err
		}
		if linked {
			return apperrors.Validation("account %s is linked to a bank account and cannot be deleted", account.Code)
		}
		if err := s.accountRepo.SoftDeleteAccount(ctx, actor.OrganizationID, accountID, actor.UserID, s.Now()); err != nil {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
			return err
		}
		s.RecordAudit(ctx, actor, "delete", "account", accountID, *account, nil)
		s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
		return nil
	})
}

// InitializeDefaultAccounts seeds the embedded chart for an organization that has no accounts yet.
func (s *accountService) InitializeDefaultAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	if err := s.AuthorizeWrite(ctx, actor, domain.PermAccountsCreate); err != nil {
		return nil, err
	}
	entries, err := defaultChart()
	if err != nil {
		s.LogError(ctx, err, "Default chart template is invalid")
		return nil, err
	}

	var created []domain.Account
	err = s.TxManager.WithinTx(ctx, func(ctx context.Context) error {
		count, err := s.accountRepo.CountAccounts(ctx, actor.OrganizationID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Validation("organization already has %d accounts; default chart can only be applied to an empty chart", count)
		}

		hasChildren := make(map[string]bool, len(entries))
		for _, e := range entries {
			if e.ParentCode != "" {
				hasChildren[e.ParentCode] = true
			}
		}

		now := s.Now()
		ids := make(map[string]string, len(entries))
		created = make([]domain.Account, 0, len(entries))
		for _, e := range entries {
			account := domain.Account{
				AccountID:       uuid.NewString(),
				OrganizationID:  actor.OrganizationID,
				Code:            e.Code,
				Name:            e.Name,
				AccountType:     e.Type,
				SubType:         e.SubType,
				IsParent:        hasChildren[e.Code],
				Description:     e.Description,
				DebitBalance:    decimal.Zero,
				CreditBalance:   decimal.Zero,
				CurrentBalance:  decimal.Zero,
				IsActive:        true,
				IsSystemAccount: e.IsSystem,
				AuditFields:     domain.NewAuditFields(actor.UserID, now),
			}
			if e.ParentCode != "" {
				parentID := ids[e.ParentCode]
				account.ParentAccountID = &parentID
			}
			if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", e.Code, err)
			}
			ids[e.Code] = account.AccountID
			created = append(created, account)
		}
		s.RecordAudit(ctx, actor, "initialize", "chart_of_accounts", actor.OrganizationID, nil, len(created))
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to initialize default accounts")
		}
		return nil, err
	}

	s.LogInfo(ctx, "Default chart of accounts created", slog.Int("count", len(created)))
	return created, nil
}
