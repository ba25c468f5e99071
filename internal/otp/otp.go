package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ErrCodeInvalidOrExpired is returned for every verification failure. Wrong
// code, expired code, replayed code and wrong user are deliberately
// indistinguishable to the caller.
var ErrCodeInvalidOrExpired = errors.New("verification code invalid or expired")

// ChallengeStore persists and consumes OTP challenges.
type ChallengeStore interface {
	Create(userID uuid.UUID, phone, code string, expiresAt time.Time) error
	// Consume atomically marks a challenge matching {userID, code}, still
	// unconsumed and unexpired at now, as used. It returns false when no such
	// challenge exists. Check-and-mark must be a single operation so that
	// concurrent attempts with the same code yield exactly one success.
	Consume(userID uuid.UUID, code string, now time.Time) (bool, error)
}

// Manager issues and verifies one-time login codes.
type Manager struct {
	store ChallengeStore
	ttl   time.Duration
}

// NewManager constructs a Manager with the given challenge lifetime.
func NewManager(store ChallengeStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Issue generates a six digit code and persists a challenge for it. Earlier
// unconsumed challenges for the same user stay valid until they expire;
// verification accepts any live match.
func (m *Manager) Issue(userID uuid.UUID, phone string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	if err := m.store.Create(userID, phone, code, time.Now().Add(m.ttl)); err != nil {
		return "", err
	}

	return code, nil
}

// Verify consumes a matching live challenge. Each issued code verifies
// successfully at most once.
func (m *Manager) Verify(userID uuid.UUID, code string) error {
	ok, err := m.store.Consume(userID, code, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrCodeInvalidOrExpired
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
