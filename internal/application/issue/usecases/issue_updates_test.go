package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

func TestAddIssueUpdateUseCase(t *testing.T) {
	existing := storedIssue(t, "issue-1", vo.StatusOpen, nil)
	repo := &mockIssueRepository{
		GetByIDFunc: func(_ context.Context, id string) (*issue.Issue, error) {
			if id == existing.ID() {
				return existing, nil
			}
			return nil, nil
		},
	}
	updates := &mockUpdateRepository{}
	cache := newMemoryIssueCache()
	uc := NewAddIssueUpdateUseCase(repo, updates, &mockTokenRepository{}, newMockReferenceRepository(),
		cache, &fakeTokenGenerator{}, markdown.NewRenderer(), logger.NewNopLogger())
	ctx := context.Background()

	t.Run("requires capability", func(t *testing.T) {
		_, err := uc.Execute(ctx, AddIssueUpdateCommand{
			IssueID:      "issue-1",
			UpdateType:   "comment",
			Content:      "hello",
			Capabilities: authorization.None(),
		})
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("rejects status changes", func(t *testing.T) {
		_, err := uc.Execute(ctx, AddIssueUpdateCommand{
			IssueID:      "issue-1",
			UpdateType:   "status_change",
			Content:      "moved",
			Capabilities: staffCapabilities(),
		})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown issue", func(t *testing.T) {
		_, err := uc.Execute(ctx, AddIssueUpdateCommand{
			IssueID:      "missing",
			UpdateType:   "comment",
			Content:      "hello",
			Capabilities: staffCapabilities(),
		})
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("private note does not touch cache", func(t *testing.T) {
		out, err := uc.Execute(ctx, AddIssueUpdateCommand{
			IssueID:      "issue-1",
			UpdateType:   "comment",
			Content:      "Checked with **facilities**",
			Capabilities: staffCapabilities(),
			ActorID:      "staff-1",
		})
		require.NoError(t, err)
		assert.False(t, out.IsPublic)
		assert.Contains(t, out.ContentHTML, "<strong>facilities</strong>")
		require.NotNil(t, out.AuthorID)
		assert.Equal(t, "staff-1", *out.AuthorID)
		assert.Zero(t, cache.sets)
	})

	t.Run("public resolution refreshes cache", func(t *testing.T) {
		_, err := uc.Execute(ctx, AddIssueUpdateCommand{
			IssueID:      "issue-1",
			UpdateType:   "resolution",
			Content:      "Fixture replaced",
			IsPublic:     true,
			Capabilities: staffCapabilities(),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)
	})
}

func TestListIssueUpdatesUseCase_Visibility(t *testing.T) {
	existing := storedIssue(t, "issue-1", vo.StatusOpen, nil)
	repo := &mockIssueRepository{
		GetByIDFunc: func(context.Context, string) (*issue.Issue, error) { return existing, nil },
	}
	updates := &mockUpdateRepository{}
	pub, err := issue.NewIssueUpdate("issue-1", vo.UpdateTypeComment, "public", nil, true)
	require.NoError(t, err)
	priv, err := issue.NewIssueUpdate("issue-1", vo.UpdateTypeComment, "private", nil, false)
	require.NoError(t, err)
	updates.created = []*issue.IssueUpdate{pub, priv}

	uc := NewListIssueUpdatesUseCase(repo, updates, markdown.NewRenderer(), logger.NewNopLogger())

	got, err := uc.Execute(context.Background(), ListIssueUpdatesQuery{IssueID: "issue-1", Capabilities: authorization.None()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "public", got[0].Content)

	got, err = uc.Execute(context.Background(), ListIssueUpdatesQuery{IssueID: "issue-1", Capabilities: staffCapabilities()})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestGetIssueUseCase(t *testing.T) {
	existing := storedIssue(t, "issue-1", vo.StatusOpen, strPtr("user-1"))
	repo := &mockIssueRepository{
		GetByIDFunc: func(_ context.Context, id string) (*issue.Issue, error) {
			if id == "issue-1" {
				return existing, nil
			}
			return nil, nil
		},
	}
	updates := &mockUpdateRepository{}
	priv, err := issue.NewIssueUpdate("issue-1", vo.UpdateTypeComment, "private", nil, false)
	require.NoError(t, err)
	updates.created = []*issue.IssueUpdate{priv}

	uc := NewGetIssueUseCase(repo, updates, newMockReferenceRepository(), newMockProfileRepository(),
		markdown.NewRenderer(), logger.NewNopLogger())

	got, err := uc.Execute(context.Background(), GetIssueQuery{IssueID: "issue-1", Capabilities: staffCapabilities()})
	require.NoError(t, err)
	require.NotNil(t, got.ReporterID)
	assert.Equal(t, "user-1", *got.ReporterID)
	assert.Len(t, got.Updates, 1)

	_, err = uc.Execute(context.Background(), GetIssueQuery{IssueID: "other"})
	assert.True(t, errors.IsNotFoundError(err))
}
