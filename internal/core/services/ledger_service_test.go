package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/dto"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	ledgerSuite
	cash string
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	s.cash = s.addAccount("1010", "Cash", domain.Asset, domain.SubTypeCash)
}

func (s *LedgerServiceTestSuite) deposit(amount, category string, txType domain.BankTransactionType) (*domain.JournalEntry, error) {
	return s.svc.Ledger.PostBankTransaction(s.ctx, s.owner, dto.PostBankTransactionInput{
		TransactionID:     "txn-1",
		TransactionNumber: "BTX-000001",
		TransactionDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:       "test",
		BankAccountGLID:   s.cash,
		Amount:            dec(amount),
		TransactionType:   txType,
		Category:          category,
	})
}

func (s *LedgerServiceTestSuite) TestDepositWithUnknownCategoryFallsBackToDefaultRevenue() {
	sales := s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	s.addAccount("4300", "Interest Income", domain.Revenue, domain.SubTypeInterestIncome)

	entry, err := s.deposit("500", "Consulting", domain.TxDeposit)

	s.Require().NoError(err)
	s.Equal("JE-000001", entry.EntryNumber)
	s.Equal(domain.Posted, entry.Status)
	s.Equal(domain.EntryAutomated, entry.EntryType)
	s.Equal(domain.RefBankTransaction, entry.ReferenceType)
	s.Require().Len(entry.LineItems, 2)
	s.Equal(s.cash, entry.LineItems[0].AccountID)
	s.True(entry.LineItems[0].Debit.Equal(dec("500")))
	s.Equal(sales, entry.LineItems[1].AccountID)
	s.True(entry.LineItems[1].Credit.Equal(dec("500")))

	s.True(s.store.account(s.cash).DebitBalance.Equal(dec("500")))
	s.True(s.store.account(sales).CreditBalance.Equal(dec("500")))
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) TestWithdrawalCategoryMatchesNamedExpenseAccount() {
	general := s.addAccount("5100", "General Expenses", domain.Expense, domain.SubTypeGeneral)
	charges := s.addAccount("5500", "Bank Charges Expense", domain.Expense, domain.SubTypeBankCharges)

	entry, err := s.deposit("200", "Bank Charges", domain.TxWithdrawal)

	s.Require().NoError(err)
	s.Equal(charges, entry.LineItems[0].AccountID)
	s.True(entry.LineItems[0].Debit.Equal(dec("200")))
	s.Equal(s.cash, entry.LineItems[1].AccountID)
	s.True(entry.LineItems[1].Credit.Equal(dec("200")))

	s.True(s.store.account(charges).DebitBalance.Equal(dec("200")))
	s.True(s.store.account(general).DebitBalance.IsZero())
	s.True(s.store.account(s.cash).CreditBalance.Equal(dec("200")))
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) TestExactNameBeatsPartialMatch() {
	s.addAccount("5050", "Rent Deposit Fees", domain.Expense, "")
	rent := s.addAccount("5200", "rent", domain.Expense, "rent")

	entry, err := s.deposit("75", "Rent", domain.TxWithdrawal)

	s.Require().NoError(err)
	s.Equal(rent, entry.LineItems[0].AccountID)
}

func (s *LedgerServiceTestSuite) TestContraResolutionNeverPicksBankAccount() {
	sales := s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)

	entry, err := s.deposit("10", "Cash", domain.TxDeposit)

	s.Require().NoError(err)
	s.Equal(sales, entry.LineItems[1].AccountID)
}

func (s *LedgerServiceTestSuite) TestDefaultsPerTransactionType() {
	sales := s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	interest := s.addAccount("4300", "Interest Income", domain.Revenue, domain.SubTypeInterestIncome)
	general := s.addAccount("5100", "General Expenses", domain.Expense, domain.SubTypeGeneral)
	fees := s.addAccount("5500", "Bank Charges", domain.Expense, domain.SubTypeBankCharges)
	other := s.addAccount("5900", "Other Expenses", domain.Expense, domain.SubTypeOther)

	cases := []struct {
		txType domain.BankTransactionType
		contra string
		debit  bool
	}{
		{domain.TxDeposit, sales, false},
		{domain.TxInterest, interest, false},
		{domain.TxWithdrawal, general, true},
		{domain.TxFee, fees, true},
		{domain.TxOther, other, true},
	}
	for _, tc := range cases {
		entry, err := s.deposit("1", "", tc.txType)
		s.Require().NoError(err, tc.txType)
		var line domain.LineItem
		for _, l := range entry.LineItems {
			if l.AccountID != s.cash {
				line = l
			}
		}
		s.Equal(tc.contra, line.AccountID, tc.txType)
		s.Equal(tc.debit, line.Debit.IsPositive(), tc.txType)
	}
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) TestFallsBackToAnyAccountOfTheSide() {
	misc := s.addAccount("4800", "Misc Income", domain.Revenue, "misc")

	entry, err := s.deposit("5", "", domain.TxInterest)

	s.Require().NoError(err)
	s.Equal(misc, entry.LineItems[1].AccountID)
}

func (s *LedgerServiceTestSuite) TestContraResolutionSkipsParentAccounts() {
	header := s.addAccount("5000", "Expenses", domain.Expense, "")
	parent := s.store.accounts[header]
	parent.IsParent = true
	s.store.accounts[header] = parent
	revenueHeader := s.addAccount("4000", "Revenue", domain.Revenue, "")
	rh := s.store.accounts[revenueHeader]
	rh.IsParent = true
	s.store.accounts[revenueHeader] = rh
	general := s.addAccount("5100", "General Expenses", domain.Expense, domain.SubTypeGeneral)
	misc := s.addAccount("4800", "Misc Income", domain.Revenue, "misc")

	entry, err := s.deposit("20", "Expenses", domain.TxWithdrawal)
	s.Require().NoError(err)
	s.Equal(general, entry.LineItems[0].AccountID)

	entry, err = s.deposit("5", "", domain.TxDeposit)
	s.Require().NoError(err)
	s.Equal(misc, entry.LineItems[1].AccountID)
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) TestNoContraAccountFails() {
	s.addAccount("5100", "General Expenses", domain.Expense, domain.SubTypeGeneral)

	_, err := s.deposit("5", "", domain.TxDeposit)

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "No suitable GL account found for deposit")
	s.Empty(s.store.entries)
	s.True(s.store.account(s.cash).DebitBalance.IsZero())
}

func (s *LedgerServiceTestSuite) TestPostBankTransactionPreconditions() {
	s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)

	_, err := s.deposit("0", "", domain.TxDeposit)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.deposit("-3", "", domain.TxDeposit)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.deposit("3", "", domain.TxTransfer)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Ledger.PostBankTransaction(s.ctx, s.owner, dto.PostBankTransactionInput{
		TransactionID:     "txn-x",
		TransactionNumber: "BTX-000009",
		TransactionDate:   time.Now(),
		BankAccountGLID:   "missing",
		Amount:            dec("3"),
		TransactionType:   domain.TxDeposit,
	})
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.Contains(err.Error(), "Bank GL account not found")
	s.Empty(s.store.entries)
}

func (s *LedgerServiceTestSuite) TestEntryNumbersAreSequential() {
	s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)

	for _, want := range []string{"JE-000001", "JE-000002", "JE-000003"} {
		entry, err := s.deposit("1", "", domain.TxDeposit)
		s.Require().NoError(err)
		s.Equal(want, entry.EntryNumber)
	}
}

func (s *LedgerServiceTestSuite) TestFailedSaveLeavesBalancesUntouched() {
	s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	s.store.failSaveJournal = true

	_, err := s.deposit("100", "", domain.TxDeposit)

	s.Require().Error(err)
	s.True(s.store.account(s.cash).DebitBalance.IsZero())
	s.Empty(s.store.sequences)
}

func (s *LedgerServiceTestSuite) TestPostTransferDebitsDestination() {
	savings := s.addAccount("1030", "Savings", domain.Asset, domain.SubTypeBank)

	entry, err := s.svc.Ledger.PostTransfer(s.ctx, s.owner, dto.PostTransferInput{
		TransferID:      "trf-1",
		TransferNumber:  "TRF-000001",
		TransferDate:    time.Now(),
		FromGLAccountID: s.cash,
		ToGLAccountID:   savings,
		Amount:          dec("250"),
	})

	s.Require().NoError(err)
	s.Require().Len(entry.LineItems, 2)
	s.Equal(savings, entry.LineItems[0].AccountID)
	s.True(entry.LineItems[0].Debit.Equal(dec("250")))
	s.Equal(s.cash, entry.LineItems[1].AccountID)
	s.True(entry.LineItems[1].Credit.Equal(dec("250")))
	s.Equal(domain.RefBankTransfer, entry.ReferenceType)
	s.Equal("trf-1", entry.ReferenceID)
	s.assertLedgerInvariants()

	_, err = s.svc.Ledger.PostTransfer(s.ctx, s.owner, dto.PostTransferInput{
		TransferID:      "trf-2",
		TransferNumber:  "TRF-000002",
		TransferDate:    time.Now(),
		FromGLAccountID: s.cash,
		ToGLAccountID:   s.cash,
		Amount:          dec("1"),
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestReverseEntryMirrorsLinesOnce() {
	sales := s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	original, err := s.deposit("80", "", domain.TxDeposit)
	s.Require().NoError(err)

	reversal, err := s.svc.Ledger.ReverseEntry(s.ctx, s.owner, original.EntryID, "duplicate")

	s.Require().NoError(err)
	s.Equal("JE-000002", reversal.EntryNumber)
	s.Equal(domain.RefJournalReversal, reversal.ReferenceType)
	s.Equal(original.EntryID, reversal.ReferenceID)
	s.Equal("Reversal of JE-000001: duplicate", reversal.Description)
	s.True(s.store.account(s.cash).CurrentBalance.IsZero())
	s.True(s.store.account(sales).CurrentBalance.IsZero())
	s.Equal(domain.Posted, s.store.entries[original.EntryID].Status)

	_, err = s.svc.Ledger.ReverseEntry(s.ctx, s.owner, original.EntryID, "again")
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Ledger.ReverseEntry(s.ctx, s.owner, reversal.EntryID, "")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) manualRequest(debitAcc, creditAcc, debit, credit string) dto.CreateJournalEntryRequest {
	return dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Description: "owner contribution",
		Lines: []dto.JournalLineRequest{
			{AccountID: debitAcc, Debit: dec(debit)},
			{AccountID: creditAcc, Credit: dec(credit)},
		},
	}
}

func (s *LedgerServiceTestSuite) TestPostManualEntry() {
	equity := s.addAccount("3100", "Owner's Equity", domain.Equity, "owner_equity")

	entry, err := s.svc.Ledger.PostManualEntry(s.ctx, s.owner, s.manualRequest(s.cash, equity, "1000", "1000"))

	s.Require().NoError(err)
	s.Equal(domain.EntryManual, entry.EntryType)
	s.True(s.store.account(s.cash).CurrentBalance.Equal(dec("1000")))
	s.True(s.store.account(equity).NormalBalance().Equal(dec("1000")))
	s.assertLedgerInvariants()
}

func (s *LedgerServiceTestSuite) TestPostManualEntryRejectsUnbalancedAndInactive() {
	equity := s.addAccount("3100", "Owner's Equity", domain.Equity, "owner_equity")

	_, err := s.svc.Ledger.PostManualEntry(s.ctx, s.owner, s.manualRequest(s.cash, equity, "1000", "999"))
	s.ErrorIs(err, apperrors.ErrValidation)

	acc := s.store.accounts[equity]
	acc.IsActive = false
	s.store.accounts[equity] = acc
	_, err = s.svc.Ledger.PostManualEntry(s.ctx, s.owner, s.manualRequest(s.cash, equity, "10", "10"))
	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Contains(err.Error(), "inactive")

	_, err = s.svc.Ledger.PostManualEntry(s.ctx, s.owner, s.manualRequest(s.cash, "nope", "10", "10"))
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Empty(s.store.entries)
	s.True(s.store.account(s.cash).DebitBalance.IsZero())
}

func (s *LedgerServiceTestSuite) TestPostingRejectsSubStoragePrecision() {
	rent := s.addAccount("5200", "Rent", domain.Expense, "rent")
	payable := s.addAccount("2100", "Accounts Payable", domain.Liability, "payable")
	req := dto.CreateJournalEntryRequest{
		EntryDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Description: "split",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.cash, Debit: dec("0.00005")},
			{AccountID: rent, Debit: dec("0.00005")},
			{AccountID: payable, Credit: dec("0.0001")},
		},
	}

	_, err := s.svc.Ledger.PostManualEntry(s.ctx, s.owner, req)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.deposit("10.12345", "", domain.TxDeposit)
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Empty(s.store.entries)
	s.True(s.store.account(s.cash).DebitBalance.IsZero())
}

func (s *LedgerServiceTestSuite) TestManualEntryRequiresPermissionAndActiveSubscription() {
	equity := s.addAccount("3100", "Owner's Equity", domain.Equity, "owner_equity")
	req := s.manualRequest(s.cash, equity, "10", "10")

	_, err := s.svc.Ledger.PostManualEntry(s.ctx, s.clerk, req)
	s.ErrorIs(err, apperrors.ErrForbidden)

	s.store.perms[testOrg+"|clerk"] = domain.NewPermissionSet(domain.PermJournalEntriesCreate)
	_, err = s.svc.Ledger.PostManualEntry(s.ctx, s.clerk, req)
	s.NoError(err)

	s.store.subs[testOrg] = domain.SubscriptionPastDue
	_, err = s.svc.Ledger.PostManualEntry(s.ctx, s.owner, req)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *LedgerServiceTestSuite) TestReverseJournalEntryRejectsBankEntries() {
	s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	bankEntry, err := s.deposit("10", "", domain.TxDeposit)
	s.Require().NoError(err)

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, s.owner, bankEntry.EntryID, dto.ReverseJournalEntryRequest{Reason: "oops"})
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, s.owner, "missing", dto.ReverseJournalEntryRequest{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestListJournalEntriesPaginates() {
	s.addAccount("4100", "Sales Revenue", domain.Revenue, domain.SubTypeSales)
	for i := 0; i < 3; i++ {
		_, err := s.deposit("1", "", domain.TxDeposit)
		s.Require().NoError(err)
	}

	first, next, err := s.svc.Ledger.ListJournalEntries(s.ctx, s.owner, dto.ListJournalEntriesParams{Limit: 2})
	s.Require().NoError(err)
	s.Len(first, 2)
	s.Require().NotNil(next)
	s.Equal("JE-000003", first[0].EntryNumber)

	rest, next, err := s.svc.Ledger.ListJournalEntries(s.ctx, s.owner, dto.ListJournalEntriesParams{Limit: 2, NextToken: next})
	s.Require().NoError(err)
	s.Len(rest, 1)
	s.Nil(next)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
