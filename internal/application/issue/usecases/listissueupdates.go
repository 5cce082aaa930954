package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

type ListIssueUpdatesQuery struct {
	IssueID      string
	Capabilities authorization.Capabilities
}

type ListIssueUpdatesUseCase struct {
	issueRepo  issue.Repository
	updateRepo issue.UpdateRepository
	renderer   markdown.Renderer
	logger     logger.Interface
}

func NewListIssueUpdatesUseCase(
	issueRepo issue.Repository,
	updateRepo issue.UpdateRepository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *ListIssueUpdatesUseCase {
	return &ListIssueUpdatesUseCase{
		issueRepo:  issueRepo,
		updateRepo: updateRepo,
		renderer:   renderer,
		logger:     logger,
	}
}

// Execute lists updates oldest first, public ones only unless the caller may
// see private notes.
func (uc *ListIssueUpdatesUseCase) Execute(ctx context.Context, query ListIssueUpdatesQuery) ([]dto.IssueUpdateDTO, error) {
	uc.logger.Infow("executing list issue updates use case", "issue_id", query.IssueID)

	found, err := uc.issueRepo.GetByID(ctx, query.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to get issue", "issue_id", query.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to list issue updates")
	}
	if found == nil {
		return nil, ErrIssueNotFound
	}

	publicOnly := !query.Capabilities.CanViewPrivateUpdates
	updates, err := uc.updateRepo.ListByIssue(ctx, found.ID(), publicOnly)
	if err != nil {
		uc.logger.Errorw("failed to list issue updates", "issue_id", found.ID(), "error", err)
		return nil, errors.NewInternalError("failed to list issue updates")
	}

	loader := newRelationLoader(nil, nil, uc.renderer, uc.logger)
	return dto.ToIssueUpdateDTOs(updates, &dto.Relations{Render: loader.render}), nil
}
