package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

type TrackIssueQuery struct {
	Token string
}

// trackedEntry is the cached document for one issue. The token expiry rides
// along so a cache hit still honours it.
type trackedEntry struct {
	Issue          *dto.TrackedIssueDTO `json:"issue"`
	TokenExpiresAt *time.Time           `json:"token_expires_at,omitempty"`
}

func (e *trackedEntry) expired(now time.Time) bool {
	return e.TokenExpiresAt != nil && !now.Before(*e.TokenExpiresAt)
}

// trackedView builds and caches the reporter-facing view of an issue.
type trackedView struct {
	tokenRepo  issue.TokenRepository
	updateRepo issue.UpdateRepository
	relations  *relationLoader
	cache      IssueCache
	tokens     TokenGenerator
	logger     logger.Interface
}

func (v *trackedView) build(ctx context.Context, i *issue.Issue) (*trackedEntry, error) {
	updates, err := v.updateRepo.ListByIssue(ctx, i.ID(), true)
	if err != nil {
		return nil, fmt.Errorf("list public updates: %w", err)
	}
	rel, err := v.relations.load(ctx, i)
	if err != nil {
		return nil, err
	}

	entry := &trackedEntry{Issue: dto.ToTrackedIssueDTO(i, updates, rel)}

	row, err := v.tokenRepo.GetByToken(ctx, i.AnonymousToken())
	if err != nil {
		return nil, fmt.Errorf("get token row: %w", err)
	}
	if row != nil {
		exp := row.ExpiresAt()
		entry.TokenExpiresAt = &exp
	}
	return entry, nil
}

// refresh rewrites the cache entry for i. Failures are logged only.
func (v *trackedView) refresh(ctx context.Context, i *issue.Issue) {
	entry, err := v.build(ctx, i)
	if err != nil {
		v.logger.Warnw("failed to build tracked view for cache", "issue_id", i.ID(), "error", err)
		v.invalidate(ctx, i.ID())
		return
	}
	if err := v.cache.Set(ctx, i.ID(), v.tokens.Fingerprint(i.AnonymousToken()), entry); err != nil {
		v.logger.Warnw("failed to cache tracked issue", "issue_id", i.ID(), "error", err)
	}
}

func (v *trackedView) invalidate(ctx context.Context, issueID string) {
	if err := v.cache.Invalidate(ctx, issueID); err != nil {
		v.logger.Warnw("failed to invalidate cached issue", "issue_id", issueID, "error", err)
	}
}

type TrackIssueByTokenUseCase struct {
	issueRepo issue.Repository
	view      *trackedView
	logger    logger.Interface
}

func NewTrackIssueByTokenUseCase(
	issueRepo issue.Repository,
	tokenRepo issue.TokenRepository,
	updateRepo issue.UpdateRepository,
	refRepo reference.Repository,
	renderer markdown.Renderer,
	cache IssueCache,
	tokens TokenGenerator,
	logger logger.Interface,
) *TrackIssueByTokenUseCase {
	return &TrackIssueByTokenUseCase{
		issueRepo: issueRepo,
		view: &trackedView{
			tokenRepo:  tokenRepo,
			updateRepo: updateRepo,
			relations:  newRelationLoader(refRepo, nil, renderer, logger),
			cache:      cache,
			tokens:     tokens,
			logger:     logger,
		},
		logger: logger,
	}
}

// Execute looks the issue up by exact token match. An unknown or expired
// token yields ErrIssueNotFound; store faults yield an internal error.
func (uc *TrackIssueByTokenUseCase) Execute(ctx context.Context, query TrackIssueQuery) (*dto.TrackedIssueDTO, error) {
	if query.Token == "" {
		return nil, ErrIssueNotFound
	}
	fingerprint := uc.view.tokens.Fingerprint(query.Token)
	uc.logger.Infow("executing track issue use case", "token_fp", shortFingerprint(fingerprint))

	now := biztime.NowUTC()

	var cached trackedEntry
	hit, err := uc.view.cache.GetByFingerprint(ctx, fingerprint, &cached)
	if err != nil {
		uc.logger.Warnw("issue cache read failed", "error", err)
	}
	if hit && cached.Issue != nil {
		if cached.expired(now) {
			return nil, ErrIssueNotFound
		}
		return cached.Issue, nil
	}

	found, err := uc.issueRepo.GetByAnonymousToken(ctx, query.Token)
	if err != nil {
		uc.logger.Errorw("failed to look up issue by token", "error", err)
		return nil, errors.NewInternalError("failed to track issue")
	}
	if found == nil {
		return nil, ErrIssueNotFound
	}

	entry, err := uc.view.build(ctx, found)
	if err != nil {
		uc.logger.Errorw("failed to build tracked issue", "issue_id", found.ID(), "error", err)
		return nil, errors.NewInternalError("failed to track issue")
	}
	if entry.expired(now) {
		uc.logger.Infow("tracking token expired", "issue_id", found.ID())
		return nil, ErrIssueNotFound
	}

	if err := uc.view.cache.Set(ctx, found.ID(), fingerprint, entry); err != nil {
		uc.logger.Warnw("failed to cache tracked issue", "issue_id", found.ID(), "error", err)
	}
	return entry.Issue, nil
}

// shortFingerprint is enough of a fingerprint to correlate log lines.
func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
