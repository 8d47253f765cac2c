package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is the fixed validity window of a password reset token.
const ResetTokenTTL = 10 * time.Minute

// NewResetToken generates a password reset token. The raw value (256 bits of
// entropy, hex encoded) is delivered to the user out-of-band and never
// persisted; only the sha256 hash is stored, together with the expiry.
func NewResetToken() (raw, hash string, expires time.Time, err error) {
	b := make([]byte, 32)
	if _, err = rand.Read(b); err != nil {
		return "", "", time.Time{}, err
	}
	raw = hex.EncodeToString(b)
	return raw, HashResetToken(raw), time.Now().Add(ResetTokenTTL), nil
}

// HashResetToken is the deterministic one-way hash used to match a presented
// raw token against the stored hash.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
