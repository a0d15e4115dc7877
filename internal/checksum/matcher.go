package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// FileHash returns the hex SHA-256 of uploaded file contents. Uploads are
// never persisted, so the hash is what ends up in the audit log.
func FileHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matcher verifies a client-supplied checksum against uploaded bytes.
type Matcher struct {
	expected string
}

// NewMatcher creates a Matcher with the checksum the client claims.
func NewMatcher(expected string) *Matcher {
	return &Matcher{expected: expected}
}

// Match checks whether the data hashes to the expected checksum.
func (m *Matcher) Match(data []byte) (bool, error) {
	if m.expected == "" {
		return false, errors.New("expected checksum is not set")
	}
	return FileHash(data) == m.expected, nil
}
