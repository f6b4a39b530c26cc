package services

import (
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smb_books/internal/core/ports/services"
	"github.com/SscSPs/smb_books/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache may be nil, in which case role permissions are read from the database every time.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.PermissionCache) *portssvc.ServiceContainer {
	ttl := DefaultPermissionCacheTTL
	if cfg != nil && cfg.PermissionCacheTTL > 0 {
		ttl = cfg.PermissionCacheTTL
	}

	base := BaseService{TxManager: repos.TxManager, AuditRepo: repos.AuditRepo}

	// The access gate goes first since every other service depends on it
	access := NewAccessService(repos.AccessRepo, cache, ttl, base)
	base.Access = access

	ledger := NewLedgerService(repos.AccountRepo, repos.JournalRepo, repos.SequenceRepo, base)

	return &portssvc.ServiceContainer{
		Access:      access,
		Account:     NewAccountService(repos.AccountRepo, base),
		Ledger:      ledger,
		BankAccount: NewBankAccountService(repos.BankAccountRepo, repos.AccountRepo, base),
		BankTxn: NewBankTransactionService(
			repos.BankAccountRepo,
			repos.BankTxnRepo,
			repos.SequenceRepo,
			ledger,
			base,
		),
		BankTransfer: NewBankTransferService(
			repos.BankAccountRepo,
			repos.BankTxnRepo,
			repos.BankTransferRepo,
			repos.SequenceRepo,
			ledger,
			base,
		),
		Reconciliation: NewReconciliationService(
			repos.ReconciliationRepo,
			repos.BankAccountRepo,
			repos.BankTxnRepo,
			repos.SequenceRepo,
			base,
		),
		Reporting: NewReportingService(repos.ReportingRepo, repos.AccountRepo, repos.AccessRepo, base),
	}
}
