package pgsql

import (
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, sealer AccountNumberSealer) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          NewPgxTxManager(dbPool),
		AccountRepo:        newPgxAccountRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		SequenceRepo:       newPgxSequenceRepository(dbPool),
		BankAccountRepo:    newPgxBankAccountRepository(dbPool, sealer),
		BankTxnRepo:        newPgxBankTransactionRepository(dbPool),
		BankTransferRepo:   newPgxBankTransferRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		AccessRepo:         newPgxAccessRepository(dbPool),
		AuditRepo:          newPgxAuditRepository(dbPool),
		ReportingRepo:      newReportingRepository(dbPool),
	}
}
