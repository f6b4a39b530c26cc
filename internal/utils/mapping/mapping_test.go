package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableHelpers(t *testing.T) {
	empty := ""
	id := "acc-1"
	assert.False(t, NullString(nil).Valid)
	assert.False(t, NullString(&empty).Valid)
	assert.Equal(t, "acc-1", *StringPtr(NullString(&id)))
	assert.Nil(t, StringPtr(NullStringValue("")))

	now := time.Now()
	assert.Nil(t, TimePtr(NullTime(nil)))
	assert.True(t, now.Equal(*TimePtr(NullTime(&now))))

	d := decimal.RequireFromString("12.34")
	assert.Nil(t, DecimalPtr(NullDecimal(nil)))
	assert.True(t, d.Equal(*DecimalPtr(NullDecimal(&d))))
}

func TestJournalEntryRoundTrip(t *testing.T) {
	entry := domain.JournalEntry{
		EntryID:        "je-1",
		OrganizationID: "org-1",
		EntryNumber:    "JE-000001",
		EntryType:      domain.EntryAutomated,
		ReferenceType:  domain.RefBankTransaction,
		ReferenceID:    "btx-1",
		Status:         domain.Posted,
		LineItems: []domain.LineItem{
			{AccountID: "cash", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "sales", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
	entry.ComputeTotals()

	got := ToDomainJournalEntry(ToModelJournalEntry(entry), ToModelJournalLines(entry))

	require.Len(t, got.LineItems, 2)
	assert.Equal(t, 2, got.LineItems[1].LineNumber)
	assert.True(t, got.IsBalanced)
	assert.True(t, got.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, domain.RefBankTransaction, got.ReferenceType)
	assert.Empty(t, got.PostedBy)
}

func TestReconciliationIDsNeverNil(t *testing.T) {
	m := ToModelReconciliation(domain.BankReconciliation{ReconciliationID: "r"})
	assert.NotNil(t, m.ReconciledTransactionIDs)

	m.ReconciledTransactionIDs = nil
	assert.NotNil(t, ToDomainReconciliation(m).ReconciledTransactionIDs)
}

func TestBankAccountKeepsOpenedNumber(t *testing.T) {
	gl := "acc-1"
	b := domain.BankAccount{BankAccountID: "ba-1", AccountNumber: "secret", GLAccountID: &gl}

	m := ToModelBankAccount(b, []byte{1, 2, 3})
	assert.Equal(t, []byte{1, 2, 3}, m.AccountNumberSealed)

	back := ToDomainBankAccount(m, "opened")
	assert.Equal(t, "opened", back.AccountNumber)
	assert.True(t, back.IsGLLinked())
}
