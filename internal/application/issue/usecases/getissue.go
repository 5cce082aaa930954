package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

type GetIssueQuery struct {
	IssueID      string
	Capabilities authorization.Capabilities
}

type GetIssueUseCase struct {
	issueRepo  issue.Repository
	updateRepo issue.UpdateRepository
	relations  *relationLoader
	logger     logger.Interface
}

func NewGetIssueUseCase(
	issueRepo issue.Repository,
	updateRepo issue.UpdateRepository,
	refRepo reference.Repository,
	profileRepo profile.Repository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *GetIssueUseCase {
	return &GetIssueUseCase{
		issueRepo:  issueRepo,
		updateRepo: updateRepo,
		relations:  newRelationLoader(refRepo, profileRepo, renderer, logger),
		logger:     logger,
	}
}

// Execute returns the detail view with its audit trail. Private updates are
// included only when the caller may see them.
func (uc *GetIssueUseCase) Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error) {
	uc.logger.Infow("executing get issue use case", "issue_id", query.IssueID)

	if query.IssueID == "" {
		return nil, errors.NewValidationError("issue ID is required", "id")
	}

	found, err := uc.issueRepo.GetByID(ctx, query.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to get issue", "issue_id", query.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to get issue")
	}
	if found == nil {
		return nil, ErrIssueNotFound
	}

	publicOnly := !query.Capabilities.CanViewPrivateUpdates
	updates, err := uc.updateRepo.ListByIssue(ctx, found.ID(), publicOnly)
	if err != nil {
		uc.logger.Errorw("failed to list issue updates", "issue_id", found.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get issue")
	}

	rel, err := uc.relations.load(ctx, found)
	if err != nil {
		uc.logger.Errorw("failed to load issue relations", "issue_id", found.ID(), "error", err)
		return nil, errors.NewInternalError("failed to get issue")
	}

	out := dto.ToIssueDTO(found, rel)
	out.Updates = dto.ToIssueUpdateDTOs(updates, rel)
	return out, nil
}
