package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

type AddIssueUpdateCommand struct {
	IssueID      string
	UpdateType   string
	Content      string
	IsPublic     bool
	Capabilities authorization.Capabilities
	ActorID      string
}

type AddIssueUpdateUseCase struct {
	issueRepo  issue.Repository
	updateRepo issue.UpdateRepository
	view       *trackedView
	logger     logger.Interface
}

func NewAddIssueUpdateUseCase(
	issueRepo issue.Repository,
	updateRepo issue.UpdateRepository,
	tokenRepo issue.TokenRepository,
	refRepo reference.Repository,
	cache IssueCache,
	tokens TokenGenerator,
	renderer markdown.Renderer,
	logger logger.Interface,
) *AddIssueUpdateUseCase {
	return &AddIssueUpdateUseCase{
		issueRepo:  issueRepo,
		updateRepo: updateRepo,
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

// Execute posts a comment, assignment or resolution note. Status changes are
// made through UpdateIssue.
func (uc *AddIssueUpdateUseCase) Execute(ctx context.Context, cmd AddIssueUpdateCommand) (*dto.IssueUpdateDTO, error) {
	uc.logger.Infow("executing add issue update use case", "issue_id", cmd.IssueID, "type", cmd.UpdateType, "public", cmd.IsPublic)

	if !cmd.Capabilities.CanPostUpdates {
		return nil, errors.NewForbiddenError("not allowed to post issue updates")
	}

	t := vo.UpdateType(cmd.UpdateType)
	if !t.IsValid() {
		return nil, errors.NewValidationError("invalid update type", "update_type")
	}
	if t == vo.UpdateTypeStatusChange {
		return nil, errors.NewValidationError("status changes are made by updating the issue", "update_type")
	}

	found, err := uc.issueRepo.GetByID(ctx, cmd.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to get issue", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to add issue update")
	}
	if found == nil {
		return nil, ErrIssueNotFound
	}

	var actor *string
	if cmd.ActorID != "" {
		id := cmd.ActorID
		actor = &id
	}

	u, err := issue.NewIssueUpdate(found.ID(), t, cmd.Content, actor, cmd.IsPublic)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.updateRepo.Create(ctx, u); err != nil {
		uc.logger.Errorw("failed to save issue update", "issue_id", found.ID(), "error", err)
		return nil, errors.NewInternalError("failed to add issue update")
	}

	if u.IsPublic() {
		uc.view.refresh(ctx, found)
	}

	uc.logger.Infow("issue update added successfully", "issue_id", found.ID(), "update_id", u.ID())
	out := dto.ToIssueUpdateDTO(u, &dto.Relations{Render: uc.view.relations.render})
	return &out, nil
}
