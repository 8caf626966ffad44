package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alteran/internal/dto"
	"alteran/internal/pkg/config"
	"alteran/internal/pkg/crypto"
	"alteran/internal/pkg/database"
	"alteran/internal/repository"
	pkgErrors "alteran/pkg/errors"
)

func TestAuthLogin(t *testing.T) {
	svc := NewAuthService(&config.AuthConfig{AdminPassword: "s3cret", Secret: "signing-key", SessionMaxAge: 3600})
	require.True(t, svc.Configured())
	assert.Equal(t, time.Hour, svc.MaxAge())

	_, err := svc.Login("wrong")
	assert.ErrorIs(t, err, pkgErrors.ErrInvalidPassword)
	_, err = svc.Login("")
	assert.ErrorIs(t, err, pkgErrors.ErrInvalidPassword)

	token, err := svc.Login("s3cret")
	require.NoError(t, err)
	assert.True(t, svc.Authenticated(token))
	assert.False(t, svc.Authenticated(""))
	assert.False(t, svc.Authenticated(token+"x"))

	other := NewAuthService(&config.AuthConfig{AdminPassword: "s3cret", Secret: "another-key", SessionMaxAge: 3600})
	assert.False(t, other.Authenticated(token))
}

func TestAuthSessionExpires(t *testing.T) {
	svc := NewAuthService(&config.AuthConfig{AdminPassword: "pw", Secret: "k", SessionMaxAge: 60}).(*authService)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	token, err := svc.Login("pw")
	require.NoError(t, err)
	assert.True(t, svc.Authenticated(token))

	svc.now = func() time.Time { return start.Add(61 * time.Second) }
	assert.False(t, svc.Authenticated(token))
}

func TestAuthPasswordHash(t *testing.T) {
	hash, err := crypto.HashPassword("hashed-pw")
	require.NoError(t, err)

	svc := NewAuthService(&config.AuthConfig{AdminPasswordHash: hash, Secret: "k"})
	_, err = svc.Login("hashed-pw")
	assert.NoError(t, err)
}

func TestAuthNotConfigured(t *testing.T) {
	svc := NewAuthService(&config.AuthConfig{AdminPassword: "pw"})
	assert.False(t, svc.Configured())

	_, err := svc.Login("pw")
	assert.ErrorIs(t, err, pkgErrors.ErrAuthNotConfigured)
	assert.Equal(t, 503, pkgErrors.StatusOf(err))
}

func TestContactSettings(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc := NewSettingService(repository.NewSettingRepository(database.NewTestDB(t)), rec, dto.ContactSettings{
		GitHubURL: "https://github.com/default",
		Email:     "default@example.com",
	})

	contact, err := svc.GetContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/default", contact.GitHubURL)

	saved, err := svc.SaveContact(ctx, &dto.ContactSettings{GitHubURL: " https://github.com/me ", Email: ""})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/me", saved.GitHubURL)
	// 空值回退到默认值
	assert.Equal(t, "default@example.com", saved.Email)
	assert.Equal(t, []string{"/", "/admin/settings"}, rec.Paths())
}

func TestContactSettingsValidatedAfterTrim(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingService(repository.NewSettingRepository(database.NewTestDB(t)), nil, dto.ContactSettings{})

	saved, err := svc.SaveContact(ctx, &dto.ContactSettings{
		GitHubURL: "\thttps://github.com/me\n",
		Email:     " me@alteran.test ",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/me", saved.GitHubURL)
	assert.Equal(t, "me@alteran.test", saved.Email)

	_, err = svc.SaveContact(ctx, &dto.ContactSettings{Email: " not-an-email "})
	require.Error(t, err)
	assert.Equal(t, 400, pkgErrors.StatusOf(err))
	assert.Contains(t, err.Error(), "email")

	// 校验失败时不写入
	contact, err := svc.GetContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me@alteran.test", contact.Email)
}
