package session

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	now := time.Unix(1_700_000_000, 0)

	token, err := m.Issue(now)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(token, "."))

	assert.NoError(t, m.Verify(token, now))
	assert.NoError(t, m.Verify(token, now.Add(59*time.Minute)))
	assert.ErrorIs(t, m.Verify(token, now.Add(time.Hour)), ErrExpired)
}

func TestVerifyRejectsTampering(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	now := time.Unix(1_700_000_000, 0)

	token, err := m.Issue(now)
	require.NoError(t, err)
	payloadB64, sigB64, _ := strings.Cut(token, ".")

	forged := base64.StdEncoding.EncodeToString([]byte(`{"exp":9999999999}`))
	assert.ErrorIs(t, m.Verify(forged+"."+sigB64, now), ErrSignature)

	other := NewManager("another-secret", time.Hour)
	assert.ErrorIs(t, other.Verify(token, now), ErrSignature)

	assert.ErrorIs(t, m.Verify(payloadB64, now), ErrMalformed)
	assert.ErrorIs(t, m.Verify(payloadB64+".%%%", now), ErrMalformed)
}

func TestVerifyRequiresNumericExp(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	payloadB64 := base64.StdEncoding.EncodeToString([]byte(`{"exp":"soon"}`))
	sig, err := jwt.SigningMethodHS256.Sign(payloadB64, []byte("test-secret"))
	require.NoError(t, err)

	token := payloadB64 + "." + base64.StdEncoding.EncodeToString(sig)
	assert.ErrorIs(t, m.Verify(token, time.Now()), ErrMalformed)
}

func TestNoSecret(t *testing.T) {
	m := NewManager("", 0)
	assert.Equal(t, DefaultMaxAge, m.MaxAge())

	_, err := m.Issue(time.Now())
	assert.ErrorIs(t, err, ErrNoSecret)
	assert.ErrorIs(t, m.Verify("a.b", time.Now()), ErrNoSecret)
}
