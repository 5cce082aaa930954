package usecases

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/infrastructure/cache"
	"github.com/candor-hq/candor/internal/infrastructure/database/dbtest"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/seeds"
	"github.com/candor-hq/candor/internal/infrastructure/repository"
	"github.com/candor-hq/candor/internal/infrastructure/token"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/db"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// issueFlow wires the issue use cases to SQLite repositories and a
// miniredis-backed cache.
type issueFlow struct {
	refRepo *repository.ReferenceRepository
	create  *CreateIssueUseCase
	fetch   *FetchIssuesUseCase
	update  *UpdateIssueUseCase
	track   *TrackIssueByTokenUseCase
	mr      *miniredis.Miniredis
}

func newIssueFlow(t *testing.T) *issueFlow {
	t.Helper()
	gdb := dbtest.NewTestDB(t)
	log := logger.NewNopLogger()
	renderer := markdown.NewRenderer()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	issueCache := cache.NewRedisIssueCache(client, 0, log)

	issueRepo := repository.NewIssueRepository(gdb)
	updateRepo := repository.NewIssueUpdateRepository(gdb)
	tokenRepo := repository.NewAnonymousTokenRepository(gdb)
	refRepo := repository.NewReferenceRepository(gdb)
	profileRepo := repository.NewProfileRepository(gdb)
	tokens := token.NewGenerator()

	data, err := seeds.DefaultReferenceData()
	require.NoError(t, err)
	_, err = seeds.SeedReferenceData(context.Background(), refRepo, data, log)
	require.NoError(t, err)

	return &issueFlow{
		refRepo: refRepo,
		create: NewCreateIssueUseCase(issueRepo, refRepo, tokens, db.NewTransactionManager(gdb),
			nil, 0, renderer, log),
		fetch: NewFetchIssuesUseCase(issueRepo, refRepo, profileRepo, renderer, log),
		update: NewUpdateIssueUseCase(issueRepo, updateRepo, tokenRepo, refRepo, profileRepo,
			nil, issueCache, tokens, renderer, log),
		track: NewTrackIssueByTokenUseCase(issueRepo, tokenRepo, updateRepo, refRepo, renderer,
			issueCache, tokens, log),
		mr: mr,
	}
}

func (f *issueFlow) categoryID(t *testing.T, name string) string {
	t.Helper()
	c, err := f.refRepo.GetCategoryByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, c, "category %s not seeded", name)
	return c.ID()
}

func TestIssueFlow_AnonymousReportCanBeTracked(t *testing.T) {
	f := newIssueFlow(t)
	ctx := context.Background()

	result, err := f.create.Execute(ctx, CreateIssueCommand{
		Title:       "Broken light in lobby",
		Description: "The lobby light has flickered for two weeks and now stays off.",
		Severity:    "low",
		CategoryID:  f.categoryID(t, "Maintenance"),
		Anonymous:   true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Len(t, result.Token, 43)

	tracked, err := f.track.Execute(ctx, TrackIssueQuery{Token: result.Token})
	require.NoError(t, err)
	assert.Equal(t, "open", tracked.Status)
	assert.Equal(t, "Broken light in lobby", tracked.Title)
	assert.Equal(t, "The lobby light has flickered for two weeks and now stays off.", tracked.Description)
	assert.Equal(t, "low", tracked.Severity)
	require.NotNil(t, tracked.Category)
	assert.Equal(t, "Maintenance", tracked.Category.Name)

	for _, key := range f.mr.Keys() {
		assert.NotContains(t, key, result.Token)
	}

	_, err = f.track.Execute(ctx, TrackIssueQuery{Token: result.Token + "x"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestIssueFlow_ResolveMovesBetweenViews(t *testing.T) {
	f := newIssueFlow(t)
	ctx := context.Background()

	created, err := f.create.Execute(ctx, CreateIssueCommand{
		Title:       "Wet floor near kitchen",
		Description: "No sign, someone slipped.",
		Severity:    "medium",
		CategoryID:  f.categoryID(t, "Safety"),
	})
	require.NoError(t, err)

	_, err = f.track.Execute(ctx, TrackIssueQuery{Token: created.Token})
	require.NoError(t, err)

	_, err = f.update.Execute(ctx, UpdateIssueCommand{
		IssueID:      created.Issue.ID,
		Patch:        IssuePatch{Status: strPtr("resolved")},
		Capabilities: staffCapabilities(),
	})
	require.NoError(t, err)

	open, err := f.fetch.Execute(ctx, FetchIssuesQuery{Status: "open"})
	require.NoError(t, err)
	assert.Empty(t, open)

	resolved, err := f.fetch.Execute(ctx, FetchIssuesQuery{Status: "resolved"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.NotNil(t, resolved[0].ResolvedAt)

	tracked, err := f.track.Execute(ctx, TrackIssueQuery{Token: created.Token})
	require.NoError(t, err)
	assert.Equal(t, "resolved", tracked.Status)
	require.Len(t, tracked.Updates, 1)
	assert.Equal(t, "status_change", tracked.Updates[0].UpdateType)
}

func TestIssueFlow_FilterCountsAddUp(t *testing.T) {
	f := newIssueFlow(t)
	ctx := context.Background()
	category := f.categoryID(t, "Other")

	targets := []string{"open", "open", "in_progress", "resolved", "closed", "in_progress"}
	for i, status := range targets {
		res, err := f.create.Execute(ctx, CreateIssueCommand{
			Title:       "Issue",
			Description: "Details",
			Severity:    "low",
			CategoryID:  category,
			Principal:   authorization.Principal{UserID: "u", Role: authorization.RoleEmployee},
			Anonymous:   i%2 == 0,
		})
		require.NoError(t, err)
		if status != "open" {
			_, err = f.update.Execute(ctx, UpdateIssueCommand{
				IssueID:      res.Issue.ID,
				Patch:        IssuePatch{Status: strPtr(status)},
				Capabilities: staffCapabilities(),
			})
			require.NoError(t, err)
		}
	}

	all, err := f.fetch.Execute(ctx, FetchIssuesQuery{})
	require.NoError(t, err)
	require.Len(t, all, len(targets))
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt))
	}

	for _, status := range []string{"open", "in_progress", "resolved", "closed"} {
		filtered, err := f.fetch.Execute(ctx, FetchIssuesQuery{Status: status})
		require.NoError(t, err)
		others := 0
		for _, other := range []string{"open", "in_progress", "resolved", "closed"} {
			if other == status {
				continue
			}
			list, err := f.fetch.Execute(ctx, FetchIssuesQuery{Status: other})
			require.NoError(t, err)
			others += len(list)
		}
		for _, i := range filtered {
			assert.Equal(t, status, i.Status)
		}
		assert.Equal(t, len(all), len(filtered)+others, status)
	}

	for _, i := range all {
		if i.IsAnonymous {
			assert.Nil(t, i.ReporterID)
		}
	}
}
