package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(testSecret, userID, "FARMER", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsedID, role, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, "FARMER", role)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "CONSUMER", -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "ADMIN", time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken("some-other-secret", token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong segment count", "aaaa.bbbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseToken(testSecret, tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestParseTokenRoleSurvivesRoundTrip(t *testing.T) {
	for _, role := range []string{"FARMER", "CONSUMER", "ADMIN"} {
		token, err := GenerateToken(testSecret, uuid.New(), role, time.Hour)
		require.NoError(t, err)

		_, parsedRole, err := ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, role, parsedRole)
	}
}
