package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flatboard/internal/apperr"
	"flatboard/internal/auth"
	"flatboard/internal/util"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)
	require.True(t, auth.CheckPassword("hunter2", hash))
	require.False(t, auth.CheckPassword("hunter3", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	clock := util.NewStubClock()
	svc := auth.NewTokenService("test-secret", clock)

	token, err := svc.Issue(1718000000000, "user@example.com")
	require.NoError(t, err)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(1718000000000), id.ID)
	require.Equal(t, "user@example.com", id.Email)
}

func TestTokenExpiry(t *testing.T) {
	clock := util.NewStubClock()
	svc := auth.NewTokenService("test-secret", clock)

	token, err := svc.Issue(42, "user@example.com")
	require.NoError(t, err)

	clock.Advance(auth.TokenTTL - time.Minute)
	_, err = svc.Verify(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.Verify(token)
	require.Error(t, err)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestTokenWrongSecret(t *testing.T) {
	clock := util.NewStubClock()

	token, err := auth.NewTokenService("secret-a", clock).Issue(1, "user@example.com")
	require.NoError(t, err)

	_, err = auth.NewTokenService("secret-b", clock).Verify(token)
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestTokenGarbage(t *testing.T) {
	svc := auth.NewTokenService("test-secret", util.NewStubClock())

	_, err := svc.Verify("not.a.token")
	require.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/user", nil)
	require.Equal(t, "", auth.ExtractToken(r))

	r.Header.Set("Authorization", "Bearer abc123")
	require.Equal(t, "abc123", auth.ExtractToken(r))

	r.Header.Set("Authorization", "Basic abc123")
	require.Equal(t, "", auth.ExtractToken(r))

	r.Header.Set("Authorization", "abc123")
	require.Equal(t, "", auth.ExtractToken(r))
}
