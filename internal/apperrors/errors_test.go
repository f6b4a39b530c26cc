package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/smb_books/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := apperrors.NotFound("Bank account")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "Bank account not found", apperrors.Message(err))
}

func TestValidationMessage(t *testing.T) {
	err := apperrors.Validation("amount must be greater than zero, got %s", "-1")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "amount must be greater than zero, got -1", apperrors.Message(err))
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", apperrors.Message(errors.New("boom")))
	assert.Equal(t, "", apperrors.Message(nil))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("%w: dup", apperrors.ErrDuplicate)
	err := apperrors.NewAppError(500, "failed to insert", cause)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Contains(t, err.Error(), "failed to insert")
}
