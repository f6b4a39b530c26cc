package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func TestBankTransactionType_Direction(t *testing.T) {
	tests := []struct {
		txType domain.BankTransactionType
		want   domain.CashDirection
	}{
		{domain.TxDeposit, domain.Inflow},
		{domain.TxInterest, domain.Inflow},
		{domain.TxWithdrawal, domain.Outflow},
		{domain.TxFee, domain.Outflow},
		{domain.TxOther, domain.Outflow},
	}

	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			assert.True(t, tt.txType.Valid())
			assert.Equal(t, tt.want, domain.DirectionFor(tt.txType))
		})
	}
	assert.False(t, domain.BankTransactionType("refund").Valid())
}

func TestBankTransaction_SignedAmount(t *testing.T) {
	in := domain.BankTransaction{Direction: domain.Inflow, Amount: dec("75")}
	out := domain.BankTransaction{Direction: domain.Outflow, Amount: dec("75")}
	assert.True(t, in.SignedAmount().Equal(dec("75")))
	assert.True(t, out.SignedAmount().Equal(dec("-75")))
}

func TestBankAccount_MaskedAccountNumber(t *testing.T) {
	assert.Equal(t, "******7890", domain.BankAccount{AccountNumber: "1234567890"}.MaskedAccountNumber())
	assert.Equal(t, "***", domain.BankAccount{AccountNumber: "123"}.MaskedAccountNumber())

	gl := "gl-1"
	assert.True(t, domain.BankAccount{GLAccountID: &gl}.IsGLLinked())
	assert.False(t, domain.BankAccount{}.IsGLLinked())
}

func TestFormatSequenceNumber(t *testing.T) {
	tests := []struct {
		kind domain.SequenceKind
		n    int64
		want string
	}{
		{domain.SeqJournalEntry, 1, "JE-000001"},
		{domain.SeqBankTransaction, 42, "BTX-000042"},
		{domain.SeqBankTransfer, 999999, "TRF-999999"},
		{domain.SeqReconciliation, 7, "REC-000007"},
		{domain.SeqVendor, 12, "VEN-00012"},
		{domain.SeqJournalEntry, 1234567, "JE-1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := domain.FormatSequenceNumber(tt.kind, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.FormatSequenceNumber("invoice", 1)
	assert.Error(t, err)
	_, err = domain.FormatSequenceNumber(domain.SeqJournalEntry, 0)
	assert.Error(t, err)
}

func TestSubscriptionStatus_AllowsWrites(t *testing.T) {
	assert.True(t, domain.SubscriptionActive.AllowsWrites())
	assert.True(t, domain.SubscriptionTrialing.AllowsWrites())
	assert.False(t, domain.SubscriptionPastDue.AllowsWrites())
	assert.False(t, domain.SubscriptionStatus("").AllowsWrites())
}
