package domain

import (
	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every stored amount carries (NUMERIC(19,4)).
const MoneyScale = 4

// HasMoneyScale reports whether d is exactly representable at MoneyScale.
func HasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}

// ValidateAmountScale rejects amounts that storage would round.
func ValidateAmountScale(field string, d decimal.Decimal) error {
	if !HasMoneyScale(d) {
		return apperrors.Validation("%s %s has more than %d decimal places", field, d, MoneyScale)
	}
	return nil
}
