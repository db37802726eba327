package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-32-characters!!"

func newTestTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTokenService(time.Hour, 24*time.Hour, "test-issuer", "test-audience", false, "", "", testSecret, NewSessionStore(nil, "test"))
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestTokenService(t)

	access, refresh, err := svc.GenerateTokens("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(time.Now().UTC()))
}

func TestTokenIDsAreUnique(t *testing.T) {
	svc := newTestTokenService(t)

	a1, _, err := svc.GenerateTokens("alice")
	require.NoError(t, err)
	a2, _, err := svc.GenerateTokens("alice")
	require.NoError(t, err)

	c1, err := svc.ValidateToken(a1)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(a2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)

	_, err = svc.ValidateToken("")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(time.Hour, 24*time.Hour, "test-issuer", "test-audience", false, "", "", "a-completely-different-32-char-key!!", NewSessionStore(nil, "test"))
	require.NoError(t, err)

	access, _, err := other.GenerateTokens("alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, err := NewTokenService(-time.Minute, 24*time.Hour, "test-issuer", "test-audience", false, "", "", testSecret, NewSessionStore(nil, "test"))
	require.NoError(t, err)

	access, _, err := svc.GenerateTokens("alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	svc := newTestTokenService(t)

	_, refresh, err := svc.GenerateTokens("alice")
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEqual(t, refresh, newRefresh)

	// The consumed refresh token cannot be replayed
	_, _, err = svc.RefreshToken(refresh)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestTokenService(t)

	access, _, err := svc.GenerateTokens("alice")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(access)
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestTokenService(t)

	access, _, err := svc.GenerateTokens("alice")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(access))

	_, err = svc.ValidateToken(access)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}
