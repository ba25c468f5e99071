package otp_test

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/farmlink/internal/otp"
)

type memoryChallenge struct {
	userID    uuid.UUID
	phone     string
	code      string
	expiresAt time.Time
	consumed  bool
}

// memoryStore mimics the conditional-update semantics of the database-backed
// store: check and mark happen under one lock.
type memoryStore struct {
	mu         sync.Mutex
	challenges []*memoryChallenge
}

func (s *memoryStore) Create(userID uuid.UUID, phone, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = append(s.challenges, &memoryChallenge{
		userID:    userID,
		phone:     phone,
		code:      code,
		expiresAt: expiresAt,
	})
	return nil
}

func (s *memoryStore) Consume(userID uuid.UUID, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.challenges {
		if ch.userID == userID && ch.code == code && !ch.consumed && ch.expiresAt.After(now) {
			ch.consumed = true
			return true, nil
		}
	}
	return false, nil
}

func TestIssueGeneratesSixDigitCode(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)

	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := manager.Issue(uuid.New(), "2550000001")
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestVerifySucceedsAtMostOnce(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)
	userID := uuid.New()

	code, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	require.NoError(t, manager.Verify(userID, code))

	// Replay of a consumed code is rejected.
	err = manager.Verify(userID, code)
	assert.ErrorIs(t, err, otp.ErrCodeInvalidOrExpired)
}

func TestVerifyWrongCode(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)
	userID := uuid.New()

	code, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	err = manager.Verify(userID, wrong)
	assert.ErrorIs(t, err, otp.ErrCodeInvalidOrExpired)

	// The real code still works after a failed attempt.
	assert.NoError(t, manager.Verify(userID, code))
}

func TestVerifyWrongUser(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)
	userID := uuid.New()

	code, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	err = manager.Verify(uuid.New(), code)
	assert.ErrorIs(t, err, otp.ErrCodeInvalidOrExpired)
}

func TestVerifyExpiredCode(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, -time.Minute)
	userID := uuid.New()

	code, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	err = manager.Verify(userID, code)
	assert.ErrorIs(t, err, otp.ErrCodeInvalidOrExpired)
}

func TestConcurrentChallengesCoexist(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)
	userID := uuid.New()

	first, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)
	second, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	// Issuing again does not invalidate the earlier challenge.
	assert.NoError(t, manager.Verify(userID, first))
	if second != first {
		assert.NoError(t, manager.Verify(userID, second))
	}
}

func TestConcurrentVerifySingleSuccess(t *testing.T) {
	store := &memoryStore{}
	manager := otp.NewManager(store, 10*time.Minute)
	userID := uuid.New()

	code, err := manager.Issue(userID, "2550000001")
	require.NoError(t, err)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- manager.Verify(userID, code)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, otp.ErrCodeInvalidOrExpired)
		}
	}
	assert.Equal(t, 1, successes)
}
