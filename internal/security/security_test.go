package security

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("testPassword123")
	require.NoError(t, err)
	assert.NotEqual(t, "testPassword123", hash)

	assert.True(t, CheckPassword("testPassword123", hash))
	assert.False(t, CheckPassword("wrongPassword", hash))
	assert.False(t, CheckPassword("", ""))

	other, err := HashPassword("testPassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, expiresAt, err := issuer.Issue(42, "parent@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "parent@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	_, err = NewTokenIssuer("other-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuerExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	token, _, err := issuer.Issue(1, "a@example.com")
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStateSigner(t *testing.T) {
	signer := NewStateSigner("secret")
	state, cookie := signer.NewState()

	assert.True(t, signer.Verify(state, cookie))
	assert.False(t, signer.Verify("other", cookie))
	assert.False(t, signer.Verify(state, state+".tampered"))
	assert.False(t, signer.Verify(state, ""))
	assert.False(t, NewStateSigner("different").Verify(state, cookie))
	assert.True(t, strings.HasPrefix(cookie, state+"."))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "keys are independent")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"), "tokens refill after the window")

	now = now.Add(5 * time.Minute)
	rl.Sweep()
	rl.mu.Lock()
	assert.Empty(t, rl.visitors)
	rl.mu.Unlock()
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "10.0.0.9"}, remote: "1.1.1.1:80", want: "10.0.0.9"},
		{name: "remote addr", remote: "192.168.1.5:5555", want: "192.168.1.5"},
		{name: "remote without port", remote: "192.168.1.5", want: "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestStateCookieSecureFlag(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/auth/google/start", nil)
	assert.False(t, CreateStateCookie(r, "oauth_state", "v", time.Minute).Secure)

	r.Header.Set("X-Forwarded-Proto", "https")
	cookie := CreateStateCookie(r, "oauth_state", "v", time.Minute)
	assert.True(t, cookie.Secure)
	assert.Equal(t, 60, cookie.MaxAge)
	assert.Equal(t, -1, CreateDeleteCookie(r, "oauth_state").MaxAge)
}
