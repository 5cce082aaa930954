package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/logger"
)

const (
	defaultAutoCloseAfter = 14 * 24 * time.Hour
	closeStaleBatchSize   = 100
)

// CloseStaleIssuesUseCase closes issues that have sat in resolved longer than
// the configured grace period. It runs without a principal; the audit entries
// it writes have no author.
type CloseStaleIssuesUseCase struct {
	issueRepo  issue.Repository
	updateRepo issue.UpdateRepository
	publisher  EventPublisher
	cache      IssueCache
	after      time.Duration
	logger     logger.Interface
}

func NewCloseStaleIssuesUseCase(
	issueRepo issue.Repository,
	updateRepo issue.UpdateRepository,
	publisher EventPublisher,
	cache IssueCache,
	after time.Duration,
	logger logger.Interface,
) *CloseStaleIssuesUseCase {
	if after <= 0 {
		after = defaultAutoCloseAfter
	}
	return &CloseStaleIssuesUseCase{
		issueRepo:  issueRepo,
		updateRepo: updateRepo,
		publisher:  publisher,
		cache:      cache,
		after:      after,
		logger:     logger,
	}
}

// Execute returns how many issues were closed. A failure on one issue is
// logged and the rest of the batch continues.
func (uc *CloseStaleIssuesUseCase) Execute(ctx context.Context) (int, error) {
	cutoff := biztime.NowUTC().Add(-uc.after)
	uc.logger.Debugw("executing close stale issues use case", "cutoff", cutoff)

	stale, err := uc.issueRepo.ListResolvedBefore(ctx, cutoff, closeStaleBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale resolved issues: %w", err)
	}

	note := fmt.Sprintf("Closed automatically after %d days in resolved", int(uc.after.Hours()/24))
	closed := 0
	for _, i := range stale {
		old, changed, err := i.ChangeStatus(vo.StatusClosed, nil)
		if err != nil || !changed {
			continue
		}
		if err := uc.issueRepo.Update(ctx, i); err != nil {
			uc.logger.Errorw("failed to auto-close issue", "issue_id", i.ID(), "error", err)
			continue
		}
		closed++

		if u, err := issue.NewStatusChangeUpdate(i.ID(), old, vo.StatusClosed, note, nil, true); err == nil {
			if err := uc.updateRepo.Create(ctx, u); err != nil {
				uc.logger.Warnw("failed to record auto-close", "issue_id", i.ID(), "error", err)
			}
		}
		if err := publishEvents(uc.publisher, i.GetEvents()); err != nil {
			uc.logger.Warnw("failed to publish issue events", "issue_id", i.ID(), "error", err)
		}
		if err := uc.cache.Invalidate(ctx, i.ID()); err != nil {
			uc.logger.Warnw("failed to invalidate cached issue", "issue_id", i.ID(), "error", err)
		}
	}

	if closed > 0 {
		uc.logger.Infow("stale resolved issues closed", "count", closed)
	}
	return closed, nil
}
