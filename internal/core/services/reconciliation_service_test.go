package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	ledgerSuite
	bank      string
	statement time.Time
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	s.bank = s.addBank("Operating", "", "0")
	s.statement = time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
}

func (s *ReconciliationServiceTestSuite) deposit(bankID, amount string) *domain.BankTransaction {
	txn, err := s.svc.BankTxn.CreateBankTransaction(s.ctx, s.owner, dto.CreateBankTransactionRequest{
		BankAccountID:   bankID,
		TransactionDate: s.statement.AddDate(0, 0, -3),
		TransactionType: domain.TxDeposit,
		Amount:          dec(amount),
	})
	s.Require().NoError(err)
	return txn
}

func (s *ReconciliationServiceTestSuite) start(statementBalance string) *domain.BankReconciliation {
	rec, err := s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.owner, dto.CreateReconciliationRequest{
		BankAccountID:    s.bank,
		StatementDate:    s.statement,
		StatementBalance: dec(statementBalance),
		Notes:            " june ",
	})
	s.Require().NoError(err)
	return rec
}

func (s *ReconciliationServiceTestSuite) TestCreateSnapshotsBookBalance() {
	s.deposit(s.bank, "300")

	rec := s.start("280")

	s.Equal("REC-000001", rec.ReconciliationNumber)
	s.Equal(domain.ReconciliationInProgress, rec.Status)
	s.True(rec.BookBalance.Equal(dec("300")))
	s.True(rec.Difference.Equal(dec("-20")))
	s.Equal("june", rec.Notes)
	s.NotNil(rec.ReconciledTransactionIDs)
	s.Empty(rec.ReconciledTransactionIDs)
}

func (s *ReconciliationServiceTestSuite) TestCreateRequiresBankAccount() {
	_, err := s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.owner, dto.CreateReconciliationRequest{
		BankAccountID: "missing",
		StatementDate: s.statement,
	})
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.owner, dto.CreateReconciliationRequest{
		BankAccountID: s.bank,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.store.recs)
}

func (s *ReconciliationServiceTestSuite) TestCreateRejectsInactiveBankAccount() {
	closed := s.store.banks[s.bank]
	closed.IsActive = false
	s.store.banks[s.bank] = closed

	_, err := s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.owner, dto.CreateReconciliationRequest{
		BankAccountID:    s.bank,
		StatementDate:    s.statement,
		StatementBalance: dec("0"),
	})

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Empty(s.store.recs)
}

func (s *ReconciliationServiceTestSuite) TestCompleteMarksTransactionsAndStampsBank() {
	a := s.deposit(s.bank, "100")
	b := s.deposit(s.bank, "50")
	rec := s.start("150")

	done, err := s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID,
		dto.CompleteReconciliationRequest{TransactionIDs: []string{a.TransactionID, b.TransactionID, a.TransactionID}})

	s.Require().NoError(err)
	s.Equal(domain.ReconciliationCompleted, done.Status)
	s.Equal([]string{a.TransactionID, b.TransactionID}, done.ReconciledTransactionIDs)
	s.Require().NotNil(done.CompletedAt)
	s.Equal(s.owner.UserID, done.CompletedBy)
	s.Require().NotNil(done.ClosingBookBalance)
	s.True(done.ClosingBookBalance.Equal(dec("150")))

	s.True(s.store.txn(a.TransactionID).IsReconciled)
	s.True(s.store.txn(b.TransactionID).IsReconciled)
	bank := s.store.bank(s.bank)
	s.Require().NotNil(bank.LastReconciledDate)
	s.True(bank.LastReconciledDate.Equal(s.statement))
	s.True(bank.LastReconciledBalance.Equal(dec("150")))
	s.True(bank.CurrentBalance.Equal(dec("150")))

	stored, err := s.svc.Reconciliation.GetBankReconciliation(s.ctx, s.owner, rec.ReconciliationID)
	s.Require().NoError(err)
	s.Equal(domain.ReconciliationCompleted, stored.Status)
}

func (s *ReconciliationServiceTestSuite) TestCompleteKeepsOpeningSnapshot() {
	s.deposit(s.bank, "100")
	rec := s.start("100")
	s.deposit(s.bank, "25")

	done, err := s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID, dto.CompleteReconciliationRequest{})

	s.Require().NoError(err)
	s.True(done.BookBalance.Equal(dec("100")))
	s.True(done.Difference.IsZero())
	s.True(done.ClosingBookBalance.Equal(dec("125")))
}

func (s *ReconciliationServiceTestSuite) TestCompleteRejectsForeignTransactions() {
	other := s.addBank("Payroll", "", "0")
	mine := s.deposit(s.bank, "10")
	theirs := s.deposit(other, "10")
	rec := s.start("20")

	_, err := s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID,
		dto.CompleteReconciliationRequest{TransactionIDs: []string{mine.TransactionID, theirs.TransactionID}})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID,
		dto.CompleteReconciliationRequest{TransactionIDs: []string{"ghost"}})
	s.ErrorIs(err, apperrors.ErrValidation)

	s.False(s.store.txn(mine.TransactionID).IsReconciled)
	s.Nil(s.store.bank(s.bank).LastReconciledDate)
	s.Equal(domain.ReconciliationInProgress, s.store.recs[rec.ReconciliationID].Status)
}

func (s *ReconciliationServiceTestSuite) TestFinishedReconciliationsAreFrozen() {
	rec := s.start("0")
	_, err := s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID, dto.CompleteReconciliationRequest{})
	s.Require().NoError(err)

	_, err = s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.owner, rec.ReconciliationID, dto.CompleteReconciliationRequest{})
	s.ErrorIs(err, apperrors.ErrConflict)
	_, err = s.svc.Reconciliation.CancelBankReconciliation(s.ctx, s.owner, rec.ReconciliationID)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Reconciliation.CancelBankReconciliation(s.ctx, s.owner, "nope")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestCancel() {
	rec := s.start("0")

	cancelled, err := s.svc.Reconciliation.CancelBankReconciliation(s.ctx, s.owner, rec.ReconciliationID)

	s.Require().NoError(err)
	s.Equal(domain.ReconciliationCancelled, cancelled.Status)
	s.Nil(s.store.bank(s.bank).LastReconciledDate)
}

func (s *ReconciliationServiceTestSuite) TestListByBankAccount() {
	s.start("0")
	s.start("0")

	recs, err := s.svc.Reconciliation.ListBankReconciliations(s.ctx, s.owner, dto.ListReconciliationsParams{BankAccountID: s.bank})
	s.Require().NoError(err)
	s.Len(recs, 2)

	none, err := s.svc.Reconciliation.ListBankReconciliations(s.ctx, s.owner, dto.ListReconciliationsParams{BankAccountID: "other"})
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *ReconciliationServiceTestSuite) TestRequiresPermission() {
	_, err := s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.clerk, dto.CreateReconciliationRequest{
		BankAccountID: s.bank,
		StatementDate: s.statement,
	})
	s.ErrorIs(err, apperrors.ErrForbidden)

	s.store.perms[testOrg+"|clerk"] = domain.NewPermissionSet(domain.PermReconciliationsCreate)
	rec, err := s.svc.Reconciliation.CreateBankReconciliation(s.ctx, s.clerk, dto.CreateReconciliationRequest{
		BankAccountID: s.bank,
		StatementDate: s.statement,
	})
	s.Require().NoError(err)

	_, err = s.svc.Reconciliation.CompleteBankReconciliation(s.ctx, s.clerk, rec.ReconciliationID, dto.CompleteReconciliationRequest{})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
