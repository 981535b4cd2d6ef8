package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Sealer mints and verifies opaque confirmation codes. A code binds a
// booking to the user who made it without exposing either ID, so it can be
// printed on receipts and quoted at the front desk.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64-encoded 256-bit key.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sealer key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// SealConfirmation produces the opaque confirmation code for a booking.
func (s *Sealer) SealConfirmation(bookingID, userID string) (string, error) {
	plaintext := []byte(bookingID + ":" + userID)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// OpenConfirmation recovers the booking and user IDs from a confirmation
// code. Tampered or foreign codes fail authentication.
func (s *Sealer) OpenConfirmation(code string) (bookingID, userID string, err error) {
	data, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return "", "", fmt.Errorf("invalid confirmation code")
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", "", fmt.Errorf("invalid confirmation code")
	}

	pt, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", "", fmt.Errorf("invalid confirmation code")
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid confirmation code")
	}

	return parts[0], parts[1], nil
}
