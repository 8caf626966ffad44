// Package session 管理员会话令牌
//
// 令牌格式: base64(JSON{"exp": <unix 秒>}) + "." + base64(HMAC-SHA256(secret, 前半段))
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName 会话 cookie 名称
const CookieName = "admin_session"

// DefaultMaxAge 默认会话有效期
const DefaultMaxAge = 7 * 24 * time.Hour

var (
	ErrNoSecret  = errors.New("session: signing secret is not configured")
	ErrMalformed = errors.New("session: malformed token")
	ErrSignature = errors.New("session: invalid signature")
	ErrExpired   = errors.New("session: token expired")
)

type payload struct {
	Exp *float64 `json:"exp"`
}

// Manager 签发与校验会话令牌
type Manager struct {
	secret []byte
	maxAge time.Duration
}

func NewManager(secret string, maxAge time.Duration) *Manager {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// MaxAge 会话有效期
func (m *Manager) MaxAge() time.Duration {
	return m.maxAge
}

// Issue 签发一个在 now+maxAge 过期的令牌
func (m *Manager) Issue(now time.Time) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}

	exp := float64(now.Add(m.maxAge).Unix())
	body, err := json.Marshal(payload{Exp: &exp})
	if err != nil {
		return "", err
	}

	payloadB64 := base64.StdEncoding.EncodeToString(body)
	sig, err := jwt.SigningMethodHS256.Sign(payloadB64, m.secret)
	if err != nil {
		return "", err
	}
	return payloadB64 + "." + base64.StdEncoding.EncodeToString(sig), nil
}

// Verify 校验签名与有效期
func (m *Manager) Verify(token string, now time.Time) error {
	if len(m.secret) == 0 {
		return ErrNoSecret
	}

	dot := strings.LastIndex(token, ".")
	if dot < 0 {
		return ErrMalformed
	}
	payloadB64, sigB64 := token[:dot], token[dot+1:]

	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return ErrMalformed
	}
	if err := jwt.SigningMethodHS256.Verify(payloadB64, sig, m.secret); err != nil {
		return ErrSignature
	}

	raw, err := base64.StdEncoding.DecodeString(payloadB64)
	if err != nil {
		return ErrMalformed
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil || p.Exp == nil {
		return ErrMalformed
	}
	if *p.Exp <= float64(now.Unix()) {
		return ErrExpired
	}
	return nil
}
