package domain

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

const base62Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SessionTokenPrefix precedes every minted session token (spec.md §6).
const SessionTokenPrefix = "sess_"

// AssessmentLinkLength is the fixed length of a minted assessment link.
const AssessmentLinkLength = 12

// SessionTokenBodyLength is the base-62 body length following SessionTokenPrefix.
const SessionTokenBodyLength = 32

// NewID mints an opaque entity id. Used for JD, set, evaluation and other
// document ids that are not exposed as public links or session tokens.
func NewID() string {
	return uuid.New().String()
}

// randomBase62 returns a cryptographically random base-62 string of length n.
func randomBase62(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = base62Alphabet[int(b)%len(base62Alphabet)]
	}
	return string(out), nil
}

// NewAssessmentLink mints a 12-char base-62 link candidate. Callers retry
// against LinkExists until a unique value is found (spec.md §4.4).
func NewAssessmentLink() (string, error) {
	return randomBase62(AssessmentLinkLength)
}

// NewSessionToken mints a "sess_"-prefixed 32-char base-62 session token
// (spec.md §6).
func NewSessionToken() (string, error) {
	body, err := randomBase62(SessionTokenBodyLength)
	if err != nil {
		return "", err
	}
	return SessionTokenPrefix + body, nil
}
