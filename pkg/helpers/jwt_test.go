package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestJWT(clock *fakeClock) *JWTManager {
	m := NewJWTManager("test-secret", time.Hour)
	m.Now = clock.Now
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestJWT(clock)

	token, exp, err := m.GenerateToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(time.Hour), exp)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestJWTManager_Expiry(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	m := newTestJWT(clock)

	token, _, err := m.GenerateToken("user-1")
	require.NoError(t, err)

	clock.t = start.Add(59 * time.Minute)
	_, err = m.ParseToken(token)
	assert.NoError(t, err)

	clock.t = start.Add(61 * time.Minute)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Rejects(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestJWT(clock)
	good, _, err := m.GenerateToken("user-1")
	require.NoError(t, err)

	other := newTestJWT(clock)
	other.Secret = []byte("another-secret")
	foreign, _, err := other.GenerateToken("user-1")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).SignedString(m.Secret)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour))},
	}).SignedString(m.Secret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"wrong secret":    foreign,
		"tampered":        good + "x",
		"garbage":         "not.a.token",
		"empty":           "",
		"missing expiry":  noExp,
		"missing user id": noUser,
		"alg none":        unsigned,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.ParseToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewJWTManager_DefaultTTL(t *testing.T) {
	m := NewJWTManager("s", 0)
	assert.Equal(t, DefaultTokenTTL, m.TTL)
}
