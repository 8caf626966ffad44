package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alteran/internal/model"
	"alteran/internal/pkg/database"
	pkgErrors "alteran/pkg/errors"
)

func TestSettingRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingRepository(database.NewTestDB(t))

	_, err := repo.Get(ctx, model.SettingContactEmail)
	assert.ErrorIs(t, err, pkgErrors.ErrRecordNotFound)

	require.NoError(t, repo.Set(ctx, model.SettingContactEmail, "a@example.com"))
	require.NoError(t, repo.Set(ctx, model.SettingContactEmail, "b@example.com"))

	value, err := repo.Get(ctx, model.SettingContactEmail)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", value)

	values, err := repo.GetMany(ctx, model.SettingContactEmail, model.SettingContactGitHub)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{model.SettingContactEmail: "b@example.com"}, values)
}

func TestGitHubCacheRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGitHubCacheRepository(database.NewTestDB(t))
	now := time.Now().Unix()

	require.NoError(t, repo.Replace(ctx, &model.GitHubCache{CacheKey: "a/b", Data: `{"v":1}`, ExpiresAt: now + 60}))
	require.NoError(t, repo.Replace(ctx, &model.GitHubCache{CacheKey: "a/b", Data: `{"v":2}`, ExpiresAt: now + 60}))
	require.NoError(t, repo.Replace(ctx, &model.GitHubCache{CacheKey: "c/d", Data: `{}`, ExpiresAt: now - 1}))

	entry, err := repo.FindFresh(ctx, "a/b", now)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, entry.Data)

	_, err = repo.FindFresh(ctx, "c/d", now)
	assert.ErrorIs(t, err, pkgErrors.ErrRecordNotFound)

	purged, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
