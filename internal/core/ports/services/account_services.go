package services

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount retrieves a specific account of the actor's organization.
	GetAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	// ListAccounts lists the chart of accounts ordered by code.
	ListAccounts(ctx context.Context, actor domain.Actor, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)
	UpdateAccount(ctx context.Context, actor domain.Actor, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeleteAccount soft-deletes an account with no postings that is not a system account.
	DeleteAccount(ctx context.Context, actor domain.Actor, accountID string) error

	// InitializeDefaultAccounts seeds the standard chart once per organization.
	InitializeDefaultAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
