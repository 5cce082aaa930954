package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/infrastructure/storage"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

func TestCloseStaleIssuesUseCase(t *testing.T) {
	stale := storedIssue(t, "issue-1", vo.StatusResolved, nil)
	failing := storedIssue(t, "issue-2", vo.StatusResolved, nil)

	var cutoff time.Time
	repo := &mockIssueRepository{
		ListResolvedBeforeFunc: func(_ context.Context, c time.Time, limit int) ([]*issue.Issue, error) {
			cutoff = c
			assert.Equal(t, closeStaleBatchSize, limit)
			return []*issue.Issue{stale, failing}, nil
		},
		UpdateFunc: func(_ context.Context, i *issue.Issue) error {
			if i.ID() == "issue-2" {
				return assert.AnError
			}
			return nil
		},
	}
	updates := &mockUpdateRepository{}
	pub := &recordingPublisher{}
	cache := newMemoryIssueCache()
	uc := NewCloseStaleIssuesUseCase(repo, updates, pub, cache, 7*24*time.Hour, logger.NewNopLogger())

	closed, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, closed)
	assert.WithinDuration(t, biztime.NowUTC().Add(-7*24*time.Hour), cutoff, time.Minute)
	assert.Equal(t, vo.StatusClosed, stale.Status())
	assert.NotNil(t, stale.ResolvedAt())

	require.Len(t, updates.created, 1)
	u := updates.created[0]
	assert.Equal(t, "issue-1", u.IssueID())
	assert.Nil(t, u.AuthorID())
	assert.True(t, u.IsPublic())
	assert.Contains(t, u.Content(), "7 days")

	assert.Equal(t, []string{issue.EventTypeIssueStatusChanged}, pub.types())
	assert.Equal(t, 1, cache.invalids)
}

func TestCloseStaleIssuesUseCase_ListFailure(t *testing.T) {
	repo := &mockIssueRepository{
		ListResolvedBeforeFunc: func(context.Context, time.Time, int) ([]*issue.Issue, error) {
			return nil, assert.AnError
		},
	}
	uc := NewCloseStaleIssuesUseCase(repo, &mockUpdateRepository{}, nil, newMemoryIssueCache(), 0, logger.NewNopLogger())

	closed, err := uc.Execute(context.Background())
	assert.Error(t, err)
	assert.Zero(t, closed)
}

func TestPresignAttachmentUseCase(t *testing.T) {
	store := &mockAttachmentStore{
		PresignUploadFunc: func(_ context.Context, contentType string) (*storage.PresignedURL, error) {
			if contentType != "image/png" {
				return nil, storage.ErrContentTypeNotAllow
			}
			return &storage.PresignedURL{Key: "issues/2026/03/a.png", Method: "PUT"}, nil
		},
		PresignDownloadFunc: func(_ context.Context, key string) (*storage.PresignedURL, error) {
			if key == "broken" {
				return nil, assert.AnError
			}
			return &storage.PresignedURL{Key: key, Method: "GET"}, nil
		},
	}
	uc := NewPresignAttachmentUseCase(store, logger.NewNopLogger())
	ctx := context.Background()

	up, err := uc.Upload(ctx, PresignAttachmentUploadCommand{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "PUT", up.Method)

	_, err = uc.Upload(ctx, PresignAttachmentUploadCommand{ContentType: "application/x-msdownload"})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Download(ctx, PresignAttachmentDownloadQuery{Key: "issues/2026/03/a.png", Capabilities: authorization.None()})
	assert.True(t, errors.IsForbiddenError(err))

	down, err := uc.Download(ctx, PresignAttachmentDownloadQuery{Key: "issues/2026/03/a.png", Capabilities: staffCapabilities()})
	require.NoError(t, err)
	assert.Equal(t, "GET", down.Method)

	_, err = uc.Download(ctx, PresignAttachmentDownloadQuery{Key: "broken", Capabilities: staffCapabilities()})
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeInternal, appErr.Type)

	disabled := NewPresignAttachmentUseCase(storage.DisabledAttachmentStore{}, logger.NewNopLogger())
	_, err = disabled.Upload(ctx, PresignAttachmentUploadCommand{ContentType: "image/png"})
	assert.Equal(t, errors.ErrorTypeBadRequest, errors.GetAppError(err).Type)
}

func TestIssueEventHandler_Escalation(t *testing.T) {
	high, err := issue.NewIssue(issue.NewIssueParams{
		Title:          "Exposed wiring",
		Description:    "Cables hanging in stairwell B",
		CategoryID:     "cat-safety",
		DepartmentID:   strPtr("dep-ops"),
		Severity:       vo.SeverityHigh,
		AnonymousToken: "secret-token",
		Location:       strPtr("Stairwell B"),
	})
	require.NoError(t, err)
	low := storedIssue(t, "issue-low", vo.StatusOpen, nil)

	repo := &mockIssueRepository{
		GetByIDFunc: func(_ context.Context, id string) (*issue.Issue, error) {
			if id == high.ID() {
				return high, nil
			}
			return low, nil
		},
	}
	notifier := &recordingNotifier{}
	h := NewIssueEventHandler(repo, newMockReferenceRepository(), newMockProfileRepository(), notifier, vo.SeverityHigh, logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, h.handleSubmitted(ctx, issue.NewIssueSubmittedEvent(low, time.Now())))
	assert.Empty(t, notifier.escalations)

	require.NoError(t, h.handleSubmitted(ctx, issue.NewIssueSubmittedEvent(high, time.Now())))
	require.Len(t, notifier.escalations, 1)
	msg := notifier.escalations[0]
	assert.Equal(t, "Exposed wiring", msg.Title)
	assert.Equal(t, "Safety", msg.Category)
	assert.Equal(t, "Operations", msg.Department)
	assert.Equal(t, "Stairwell B", msg.Location)
	assert.NotContains(t, msg.Description+msg.Title+msg.Location, "secret-token")
}

func TestIssueEventHandler_StatusChangedMailsNamedReportersOnly(t *testing.T) {
	reporter, err := profile.NewProfileFromSignUp("user-1", "reporter@example.com", profile.SignUpMetadata{FullName: "Pat Doe"})
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	h := NewIssueEventHandler(&mockIssueRepository{}, newMockReferenceRepository(), newMockProfileRepository(reporter), notifier, "", logger.NewNopLogger())
	ctx := context.Background()

	anon := storedIssue(t, "issue-a", vo.StatusOpen, nil)
	require.NoError(t, h.handleStatusChanged(ctx, issue.NewIssueStatusChangedEvent(anon, vo.StatusOpen, vo.StatusResolved, nil, time.Now())))
	assert.Empty(t, notifier.statusTo)

	named := storedIssue(t, "issue-n", vo.StatusOpen, strPtr("user-1"))
	require.NoError(t, h.handleStatusChanged(ctx, issue.NewIssueStatusChangedEvent(named, vo.StatusOpen, vo.StatusInProgress, nil, time.Now())))
	assert.Equal(t, []string{"reporter@example.com"}, notifier.statusTo)
	assert.Equal(t, "in_progress", notifier.statusMsgs[0].NewStatus)
}
