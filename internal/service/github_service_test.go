package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alteran/internal/dto"
	"alteran/internal/model"
	"alteran/internal/pkg/database"
	"alteran/internal/pkg/github"
	"alteran/internal/repository"
	pkgErrors "alteran/pkg/errors"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	repo  github.Repo
	err   error
}

func (f *fakeFetcher) FetchRepo(_ context.Context, owner, name string) (*github.Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	repo := f.repo
	repo.Owner, repo.Name = owner, name
	return &repo, nil
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type githubFixture struct {
	svc      *githubService
	fetcher  *fakeFetcher
	projects repository.ProjectRepository
	clock    *time.Time
}

func newGitHubFixture(t *testing.T) *githubFixture {
	t.Helper()
	db := database.NewTestDB(t)
	projectRepo := repository.NewProjectRepository(db)
	fetcher := &fakeFetcher{repo: github.Repo{
		Description:       "A tool",
		URL:               "https://github.com/octo/tool",
		Stars:             42,
		PrimaryLanguage:   "Go",
		Topics:            []string{"cli"},
		Languages:         []string{"Go", "Shell"},
		OpenGraphImageURL: "https://og.example/tool.png",
	}}

	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewGitHubService(fetcher, repository.NewGitHubCacheRepository(db),
		NewProjectService(projectRepo, nil), time.Hour).(*githubService)
	svc.now = func() time.Time { return clock }

	return &githubFixture{svc: svc, fetcher: fetcher, projects: projectRepo, clock: &clock}
}

func TestGetRepoUsesCacheUntilExpiry(t *testing.T) {
	ctx := context.Background()
	fx := newGitHubFixture(t)

	first, err := fx.svc.GetRepo(ctx, "octo", "tool")
	require.NoError(t, err)
	assert.Equal(t, 42, first.Stars)
	assert.Equal(t, 1, fx.fetcher.Calls())

	// 缓存键不区分大小写
	_, err = fx.svc.GetRepo(ctx, "Octo", "Tool")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.fetcher.Calls())

	*fx.clock = fx.clock.Add(59 * time.Minute)
	_, err = fx.svc.GetRepo(ctx, "octo", "tool")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.fetcher.Calls())

	*fx.clock = fx.clock.Add(2 * time.Minute)
	fx.fetcher.repo.Stars = 50
	refreshed, err := fx.svc.GetRepo(ctx, "octo", "tool")
	require.NoError(t, err)
	assert.Equal(t, 50, refreshed.Stars)
	assert.Equal(t, 2, fx.fetcher.Calls())
}

func TestInvalidateAndPurge(t *testing.T) {
	ctx := context.Background()
	fx := newGitHubFixture(t)

	_, err := fx.svc.GetRepo(ctx, "octo", "tool")
	require.NoError(t, err)
	require.NoError(t, fx.svc.Invalidate(ctx, "octo", "tool"))

	_, err = fx.svc.GetRepo(ctx, "octo", "tool")
	require.NoError(t, err)
	assert.Equal(t, 2, fx.fetcher.Calls())

	*fx.clock = fx.clock.Add(2 * time.Hour)
	purged, err := fx.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestGetRepoMapsUpstreamErrors(t *testing.T) {
	fx := newGitHubFixture(t)
	fx.fetcher.err = &github.APIError{Kind: github.ErrNotFound, StatusCode: http.StatusNotFound, Message: "Repository octo/tool not found"}

	_, err := fx.svc.GetRepo(context.Background(), "octo", "tool")
	require.Error(t, err)
	appErr, ok := pkgErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Repository octo/tool not found", appErr.Message)
	assert.ErrorIs(t, err, github.ErrNotFound)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	fx := newGitHubFixture(t)

	found, err := fx.svc.Lookup(ctx, &dto.GitHubRepoRequest{URL: "https://github.com/octo/tool.git"})
	require.NoError(t, err)
	assert.Equal(t, "tool", found.Title)
	assert.Equal(t, "octo", found.GitHubOwner)
	assert.Equal(t, []string{"Go", "Shell"}, found.TechStack)
	assert.Equal(t, 42, found.Raw.Stars)
	assert.Equal(t, "Go", lo.FromPtr(found.Raw.PrimaryLanguage))

	byParts, err := fx.svc.Lookup(ctx, &dto.GitHubRepoRequest{Owner: "octo", Repo: "tool"})
	require.NoError(t, err)
	assert.Equal(t, found.SourceURL, byParts.SourceURL)

	_, err = fx.svc.Lookup(ctx, &dto.GitHubRepoRequest{Owner: "octo"})
	assert.ErrorIs(t, err, pkgErrors.ErrRepoRefRequired)

	_, err = fx.svc.Lookup(ctx, &dto.GitHubRepoRequest{URL: "https://gitlab.com/octo/tool"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, pkgErrors.StatusOf(err))
}

func TestImportCreatesDraft(t *testing.T) {
	ctx := context.Background()
	fx := newGitHubFixture(t)

	project, err := fx.svc.Import(ctx, &dto.GitHubRepoRequest{URL: "octo/tool"})
	require.NoError(t, err)

	stored, err := fx.projects.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "tool", stored.Slug)
	assert.Equal(t, model.ProjectStatusDraft, stored.Status)
	assert.Equal(t, model.ProjectSourceGitHub, stored.Source)
	assert.Equal(t, 42, stored.GitHubStars)
	assert.Equal(t, "octo", lo.FromPtr(stored.GitHubOwner))
	assert.Equal(t, []string{"cli"}, []string(stored.GitHubTopics))
}
