package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/stretchr/testify/suite"
)

type BankTransferServiceTestSuite struct {
	ledgerSuite
	checkingGL string
	savingsGL  string
	checking   string
	savings    string
}

func (s *BankTransferServiceTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	s.checkingGL = s.addAccount("1021", "Checking", domain.Asset, domain.SubTypeBank)
	s.savingsGL = s.addAccount("1022", "Savings", domain.Asset, domain.SubTypeBank)
	s.checking = s.addBank("Checking", s.checkingGL, "1000")
	s.savings = s.addBank("Savings", s.savingsGL, "0")
}

func (s *BankTransferServiceTestSuite) transfer(from, to, amount string) (*domain.BankTransfer, error) {
	return s.svc.BankTransfer.CreateBankTransfer(s.ctx, s.owner, dto.CreateBankTransferRequest{
		FromBankAccountID: from,
		ToBankAccountID:   to,
		Amount:            dec(amount),
		TransferDate:      time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
	})
}

func (s *BankTransferServiceTestSuite) TestTransferMovesCashAndPostsOneEntry() {
	t, err := s.transfer(s.checking, s.savings, "250")

	s.Require().NoError(err)
	s.Equal("TRF-000001", t.TransferNumber)
	s.True(s.store.bank(s.checking).CurrentBalance.Equal(dec("750")))
	s.True(s.store.bank(s.savings).CurrentBalance.Equal(dec("250")))

	out := s.store.txn(t.FromTransactionID)
	in := s.store.txn(t.ToTransactionID)
	s.Equal(domain.Outflow, out.Direction)
	s.Equal(domain.Inflow, in.Direction)
	s.Equal(domain.TxTransfer, out.TransactionType)
	s.Equal("BTX-000001", out.TransactionNumber)
	s.Equal("BTX-000002", in.TransactionNumber)
	s.Equal("Transfer to Savings", out.Description)
	s.Equal("Transfer from Checking", in.Description)
	s.Equal(t.TransferNumber, out.Reference)
	s.Require().NotNil(out.TransferID)
	s.Equal(t.TransferID, *out.TransferID)

	s.Require().NotNil(t.JournalEntryID)
	s.Require().Len(s.store.entries, 1)
	entry := s.store.entries[*t.JournalEntryID]
	s.Len(entry.LineItems, 2)
	s.Equal(domain.RefBankTransfer, entry.ReferenceType)
	s.Equal(*t.JournalEntryID, *out.JournalEntryID)
	s.Equal(*t.JournalEntryID, *in.JournalEntryID)

	s.True(s.store.account(s.savingsGL).DebitBalance.Equal(dec("250")))
	s.True(s.store.account(s.checkingGL).CreditBalance.Equal(dec("250")))
	total := s.store.account(s.savingsGL).CurrentBalance.Add(s.store.account(s.checkingGL).CurrentBalance)
	s.True(total.IsZero())
	s.assertLedgerInvariants()
}

func (s *BankTransferServiceTestSuite) TestInsufficientBalanceChangesNothing() {
	_, err := s.transfer(s.savings, s.checking, "0.01")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "insufficient balance")
	s.Zero(s.store.transferCount(testOrg))
	s.Zero(s.store.liveTxnCount(testOrg))
	s.Empty(s.store.entries)
	s.Empty(s.store.sequences)
	s.True(s.store.bank(s.checking).CurrentBalance.Equal(dec("1000")))
}

func (s *BankTransferServiceTestSuite) TestExactBalanceIsAllowed() {
	_, err := s.transfer(s.checking, s.savings, "1000")

	s.Require().NoError(err)
	s.True(s.store.bank(s.checking).CurrentBalance.IsZero())
}

func (s *BankTransferServiceTestSuite) TestRejectsInvalidRequests() {
	_, err := s.transfer(s.checking, s.checking, "10")
	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "same account")

	_, err = s.transfer(s.checking, s.savings, "-5")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.transfer(s.checking, s.savings, "5.00001")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.transfer(s.checking, "nope", "5")
	s.ErrorIs(err, apperrors.ErrNotFound)

	closed := s.store.banks[s.savings]
	closed.IsActive = false
	s.store.banks[s.savings] = closed
	_, err = s.transfer(s.checking, s.savings, "5")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Zero(s.store.transferCount(testOrg))
}

func (s *BankTransferServiceTestSuite) TestUnlinkedAccountSkipsPosting() {
	vault := s.addBank("Vault", "", "0")

	t, err := s.transfer(s.checking, vault, "100")

	s.Require().NoError(err)
	s.Nil(t.JournalEntryID)
	s.Empty(s.store.entries)
	s.True(s.store.bank(vault).CurrentBalance.Equal(dec("100")))
}

func (s *BankTransferServiceTestSuite) TestDeleteUndoesBothLegs() {
	t, err := s.transfer(s.checking, s.savings, "400")
	s.Require().NoError(err)

	err = s.svc.BankTransfer.DeleteBankTransfer(s.ctx, s.owner, t.TransferID)

	s.Require().NoError(err)
	s.True(s.store.bank(s.checking).CurrentBalance.Equal(dec("1000")))
	s.True(s.store.bank(s.savings).CurrentBalance.IsZero())
	s.Zero(s.store.transferCount(testOrg))
	s.Zero(s.store.liveTxnCount(testOrg))
	s.True(s.store.account(s.checkingGL).CurrentBalance.IsZero())
	s.True(s.store.account(s.savingsGL).CurrentBalance.IsZero())
	s.Len(s.store.entries, 2)

	_, err = s.svc.BankTransfer.GetBankTransfer(s.ctx, s.owner, t.TransferID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.assertLedgerInvariants()
}

func (s *BankTransferServiceTestSuite) TestLegsCannotBeDeletedAlone() {
	t, err := s.transfer(s.checking, s.savings, "10")
	s.Require().NoError(err)

	err = s.svc.BankTxn.DeleteBankTransaction(s.ctx, s.owner, t.FromTransactionID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(2, s.store.liveTxnCount(testOrg))
}

func (s *BankTransferServiceTestSuite) TestReconciledLegBlocksDelete() {
	t, err := s.transfer(s.checking, s.savings, "10")
	s.Require().NoError(err)
	_, err = s.svc.BankTxn.ReconcileBankTransaction(s.ctx, s.owner, t.ToTransactionID)
	s.Require().NoError(err)

	err = s.svc.BankTransfer.DeleteBankTransfer(s.ctx, s.owner, t.TransferID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(1, s.store.transferCount(testOrg))
	s.True(s.store.bank(s.savings).CurrentBalance.Equal(dec("10")))
}

func TestBankTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BankTransferServiceTestSuite))
}
