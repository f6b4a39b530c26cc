package utils

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSealedValueInvalid is returned when a sealed value cannot be opened with the configured key.
var ErrSealedValueInvalid = errors.New("sealed value is invalid or was sealed with another key")

// AccountNumberSealer encrypts bank account numbers at rest with XChaCha20-Poly1305.
// The bank account id is bound as associated data so a sealed number cannot be
// moved to another row.
type AccountNumberSealer struct {
	aead cipher.AEAD
}

// NewAccountNumberSealer builds a sealer from a 32-byte key.
func NewAccountNumberSealer(key []byte) (*AccountNumberSealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create account number cipher: %w", err)
	}
	return &AccountNumberSealer{aead: aead}, nil
}

// Seal returns nonce||ciphertext. An empty number seals to nil.
func (s *AccountNumberSealer) Seal(bankAccountID, accountNumber string) ([]byte, error) {
	if accountNumber == "" {
		return nil, nil
	}
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(accountNumber)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(accountNumber), []byte(bankAccountID)), nil
}

// Open reverses Seal.
func (s *AccountNumberSealer) Open(bankAccountID string, sealed []byte) (string, error) {
	if len(sealed) == 0 {
		return "", nil
	}
	if len(sealed) < s.aead.NonceSize()+s.aead.Overhead() {
		return "", ErrSealedValueInvalid
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(bankAccountID))
	if err != nil {
		return "", ErrSealedValueInvalid
	}
	return string(plain), nil
}
