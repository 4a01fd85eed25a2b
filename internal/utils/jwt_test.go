package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, tokenID, err := GenerateToken("test-secret", userID, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, tokenID)

	parsedUser, parsedToken, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedUser)
	assert.Equal(t, tokenID, parsedToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateToken("test-secret", uuid.New(), time.Hour)
	require.NoError(t, err)

	_, _, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsForeignSigningMethod(t *testing.T) {
	userID := uuid.New()
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ParseToken("test-secret", unsigned)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaSigned, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	_, _, err = ParseToken("test-secret", rsaSigned)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateToken("test-secret", uuid.New(), -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseToken("test-secret", token)
	assert.Error(t, err)
}
