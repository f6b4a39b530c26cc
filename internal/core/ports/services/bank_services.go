package services

import (
	"context"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
)

// BankAccountSvcFacade manages bank accounts.
type BankAccountSvcFacade interface {
	CreateBankAccount(ctx context.Context, actor domain.Actor, req dto.CreateBankAccountRequest) (*domain.BankAccount, error)
	GetBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, actor domain.Actor) ([]domain.BankAccount, error)
	UpdateBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string, req dto.UpdateBankAccountRequest) (*domain.BankAccount, error)
	DeleteBankAccount(ctx context.Context, actor domain.Actor, bankAccountID string) error
}

// BankTransactionSvcFacade records cash movements on a bank account.
type BankTransactionSvcFacade interface {
	CreateBankTransaction(ctx context.Context, actor domain.Actor, req dto.CreateBankTransactionRequest) (*domain.BankTransaction, error)
	GetBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.BankTransaction, error)
	ListBankTransactions(ctx context.Context, actor domain.Actor, params dto.ListBankTransactionsParams) ([]domain.BankTransaction, *string, error)
	UpdateBankTransaction(ctx context.Context, actor domain.Actor, transactionID string, req dto.UpdateBankTransactionRequest) (*domain.BankTransaction, error)
	DeleteBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) error
	ReconcileBankTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.BankTransaction, error)
}

// BankTransferSvcFacade moves cash between two bank accounts.
type BankTransferSvcFacade interface {
	CreateBankTransfer(ctx context.Context, actor domain.Actor, req dto.CreateBankTransferRequest) (*domain.BankTransfer, error)
	GetBankTransfer(ctx context.Context, actor domain.Actor, transferID string) (*domain.BankTransfer, error)
	ListBankTransfers(ctx context.Context, actor domain.Actor, params dto.ListBankTransfersParams) ([]domain.BankTransfer, *string, error)
	DeleteBankTransfer(ctx context.Context, actor domain.Actor, transferID string) error
}

// ReconciliationSvcFacade compares statements to book balances.
type ReconciliationSvcFacade interface {
	CreateBankReconciliation(ctx context.Context, actor domain.Actor, req dto.CreateReconciliationRequest) (*domain.BankReconciliation, error)
	CompleteBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string, req dto.CompleteReconciliationRequest) (*domain.BankReconciliation, error)
	CancelBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string) (*domain.BankReconciliation, error)
	GetBankReconciliation(ctx context.Context, actor domain.Actor, reconciliationID string) (*domain.BankReconciliation, error)
	ListBankReconciliations(ctx context.Context, actor domain.Actor, params dto.ListReconciliationsParams) ([]domain.BankReconciliation, error)
}
