package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLineItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.LineItem
		wantErr bool
	}{
		{name: "debit only", line: domain.LineItem{AccountID: "a", Debit: dec("10")}},
		{name: "credit only", line: domain.LineItem{AccountID: "a", Credit: dec("10")}},
		{name: "both sides", line: domain.LineItem{AccountID: "a", Debit: dec("10"), Credit: dec("10")}, wantErr: true},
		{name: "neither side", line: domain.LineItem{AccountID: "a"}, wantErr: true},
		{name: "negative debit", line: domain.LineItem{AccountID: "a", Debit: dec("-5")}, wantErr: true},
		{name: "missing account", line: domain.LineItem{Debit: dec("5")}, wantErr: true},
		{name: "four decimal places", line: domain.LineItem{AccountID: "a", Debit: dec("0.0001")}},
		{name: "trailing zeros", line: domain.LineItem{AccountID: "a", Credit: dec("12.500000")}},
		{name: "finer than storage", line: domain.LineItem{AccountID: "a", Debit: dec("0.00005")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAmountScale(t *testing.T) {
	assert.NoError(t, domain.ValidateAmountScale("amount", dec("1234.5678")))
	assert.NoError(t, domain.ValidateAmountScale("amount", dec("-3.10")))
	assert.ErrorIs(t, domain.ValidateAmountScale("amount", dec("1.23456")), apperrors.ErrValidation)
}

func TestJournalEntry_Post(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("balanced entry is posted", func(t *testing.T) {
		e := domain.JournalEntry{
			Status: domain.Draft,
			LineItems: []domain.LineItem{
				{AccountID: "cash", Debit: dec("250.50")},
				{AccountID: "sales", Credit: dec("200")},
				{AccountID: "tax", Credit: dec("50.50")},
			},
		}
		require.NoError(t, e.Post("u1", at))
		assert.Equal(t, domain.Posted, e.Status)
		assert.True(t, e.IsBalanced)
		assert.True(t, e.TotalDebit.Equal(dec("250.50")))
		assert.True(t, e.TotalCredit.Equal(e.TotalDebit))
		assert.Equal(t, "u1", e.PostedBy)
		assert.Equal(t, 3, e.LineItems[2].LineNumber)
	})

	t.Run("unbalanced entry is rejected", func(t *testing.T) {
		e := domain.JournalEntry{
			Status: domain.Draft,
			LineItems: []domain.LineItem{
				{AccountID: "cash", Debit: dec("100")},
				{AccountID: "sales", Credit: dec("99.99")},
			},
		}
		err := e.Post("u1", at)
		assert.ErrorIs(t, err, domain.ErrJournalUnbalanced)
		assert.Equal(t, domain.Draft, e.Status)
		assert.Nil(t, e.PostedDate)
	})

	t.Run("single line is rejected", func(t *testing.T) {
		e := domain.JournalEntry{LineItems: []domain.LineItem{{AccountID: "cash", Debit: dec("1")}}}
		assert.ErrorIs(t, e.Post("u1", at), domain.ErrJournalMinLines)
	})

	t.Run("posted entry cannot be posted again", func(t *testing.T) {
		e := domain.JournalEntry{Status: domain.Posted}
		assert.ErrorIs(t, e.Post("u1", at), domain.ErrJournalPosted)
	})
}

func TestJournalEntry_BalanceDeltasAndReversal(t *testing.T) {
	e := domain.JournalEntry{
		LineItems: []domain.LineItem{
			{AccountID: "cash", Debit: dec("100")},
			{AccountID: "cash", Credit: dec("40")},
			{AccountID: "sales", Credit: dec("60")},
		},
	}

	deltas := e.BalanceDeltas()
	require.Len(t, deltas, 2)
	assert.True(t, deltas["cash"].Debit.Equal(dec("100")))
	assert.True(t, deltas["cash"].Credit.Equal(dec("40")))
	assert.True(t, deltas["sales"].Credit.Equal(dec("60")))

	rev := domain.JournalEntry{LineItems: e.ReversalLines("undo")}
	require.NoError(t, rev.Validate())
	assert.True(t, rev.LineItems[0].Credit.Equal(dec("100")))
	assert.True(t, rev.LineItems[0].Debit.IsZero())
	assert.Equal(t, "undo", rev.LineItems[2].Description)
}
