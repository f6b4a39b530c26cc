package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte{7}, 32)

func TestAccountNumberSealer_RoundTrip(t *testing.T) {
	s, err := NewAccountNumberSealer(testKey)
	require.NoError(t, err)

	sealed, err := s.Seal("ba-1", "9876543210")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "9876543210")

	again, err := s.Seal("ba-1", "9876543210")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonces must differ between seals")

	plain, err := s.Open("ba-1", sealed)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", plain)
}

func TestAccountNumberSealer_EmptyNumber(t *testing.T) {
	s, err := NewAccountNumberSealer(testKey)
	require.NoError(t, err)

	sealed, err := s.Seal("ba-1", "")
	require.NoError(t, err)
	assert.Nil(t, sealed)

	plain, err := s.Open("ba-1", nil)
	require.NoError(t, err)
	assert.Empty(t, plain)
}

func TestAccountNumberSealer_RejectsTampering(t *testing.T) {
	s, err := NewAccountNumberSealer(testKey)
	require.NoError(t, err)
	sealed, err := s.Seal("ba-1", "12345678")
	require.NoError(t, err)

	_, err = s.Open("ba-2", sealed)
	assert.ErrorIs(t, err, ErrSealedValueInvalid, "sealed value is bound to its row")

	other, err := NewAccountNumberSealer(bytes.Repeat([]byte{8}, 32))
	require.NoError(t, err)
	_, err = other.Open("ba-1", sealed)
	assert.ErrorIs(t, err, ErrSealedValueInvalid)

	_, err = s.Open("ba-1", sealed[:10])
	assert.ErrorIs(t, err, ErrSealedValueInvalid)
}

func TestNewAccountNumberSealer_KeySize(t *testing.T) {
	_, err := NewAccountNumberSealer([]byte("short"))
	assert.Error(t, err)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 64)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}
