package usecases

import (
	"context"
	"fmt"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// IssuePatch is a partial update. Nil fields are left alone; for the
// nullable ones (assignee, department, location) an empty string clears.
type IssuePatch struct {
	Status       *string
	StatusNote   *string
	Severity     *string
	AssignedTo   *string
	DepartmentID *string
	CategoryID   *string
	Location     *string
	Title        *string
	Description  *string
	Metadata     map[string]interface{}
}

func (p IssuePatch) isEmpty() bool {
	return p.Status == nil && p.Severity == nil && p.AssignedTo == nil &&
		p.DepartmentID == nil && p.CategoryID == nil && p.Location == nil &&
		p.Title == nil && p.Description == nil && len(p.Metadata) == 0
}

// UpdateIssueCommand carries the caller's capabilities, resolved server side.
type UpdateIssueCommand struct {
	IssueID      string
	Patch        IssuePatch
	Capabilities authorization.Capabilities
	ActorID      string
}

type UpdateIssueUseCase struct {
	issueRepo   issue.Repository
	updateRepo  issue.UpdateRepository
	refRepo     reference.Repository
	profileRepo profile.Repository
	publisher   EventPublisher
	relations   *relationLoader
	view        *trackedView
	logger      logger.Interface
}

func NewUpdateIssueUseCase(
	issueRepo issue.Repository,
	updateRepo issue.UpdateRepository,
	tokenRepo issue.TokenRepository,
	refRepo reference.Repository,
	profileRepo profile.Repository,
	publisher EventPublisher,
	cache IssueCache,
	tokens TokenGenerator,
	renderer markdown.Renderer,
	logger logger.Interface,
) *UpdateIssueUseCase {
	return &UpdateIssueUseCase{
		issueRepo:   issueRepo,
		updateRepo:  updateRepo,
		refRepo:     refRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
		relations:   newRelationLoader(refRepo, profileRepo, renderer, logger),
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

// Execute applies the patch with last-write-wins semantics. The audit entries
// for status and assignment changes are written after the issue row and a
// failure there is only logged.
func (uc *UpdateIssueUseCase) Execute(ctx context.Context, cmd UpdateIssueCommand) (*dto.IssueDTO, error) {
	uc.logger.Infow("executing update issue use case", "issue_id", cmd.IssueID, "actor_id", cmd.ActorID)

	if !cmd.Capabilities.CanUpdateIssues {
		uc.logger.Warnw("issue update refused", "issue_id", cmd.IssueID, "role", cmd.Capabilities.Role)
		return nil, errors.NewForbiddenError("not allowed to update issues")
	}

	if err := validatePatch(cmd.IssueID, cmd.Patch); err != nil {
		return nil, err
	}

	current, err := uc.issueRepo.GetByID(ctx, cmd.IssueID)
	if err != nil {
		uc.logger.Errorw("failed to get issue", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to update issue")
	}
	if current == nil {
		return nil, ErrIssueNotFound
	}

	if err := uc.checkReferences(ctx, cmd.Patch); err != nil {
		return nil, err
	}

	var actor *string
	if cmd.ActorID != "" {
		id := cmd.ActorID
		actor = &id
	}

	change, err := applyPatch(current, cmd.Patch, actor)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.issueRepo.Update(ctx, current); err != nil {
		uc.logger.Errorw("failed to save issue", "issue_id", current.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update issue")
	}

	uc.recordAudit(ctx, current, change, cmd.Patch, actor)

	if err := publishEvents(uc.publisher, current.GetEvents()); err != nil {
		uc.logger.Warnw("failed to publish issue events", "issue_id", current.ID(), "error", err)
	}

	updated, err := uc.issueRepo.GetByID(ctx, current.ID())
	if err != nil || updated == nil {
		uc.logger.Errorw("failed to re-read issue", "issue_id", current.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update issue")
	}

	uc.view.refresh(ctx, updated)

	rel, err := uc.relations.load(ctx, updated)
	if err != nil {
		uc.logger.Errorw("failed to load issue relations", "issue_id", updated.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update issue")
	}

	uc.logger.Infow("issue updated successfully", "issue_id", updated.ID(), "status", updated.Status())
	return dto.ToIssueDTO(updated, rel), nil
}

type patchChange struct {
	statusChanged   bool
	oldStatus       vo.IssueStatus
	assigneeChanged bool
}

func validatePatch(issueID string, p IssuePatch) error {
	if issueID == "" {
		return errors.NewValidationError("issue ID is required", "id")
	}
	if p.isEmpty() {
		return errors.NewValidationError("no fields to update")
	}
	if p.Status != nil && !vo.IssueStatus(*p.Status).IsValid() {
		return errors.NewValidationError("invalid status", "status")
	}
	if p.Severity != nil && !vo.Severity(*p.Severity).IsValid() {
		return errors.NewValidationError("invalid severity", "severity")
	}
	if p.CategoryID != nil && *p.CategoryID == "" {
		return errors.NewValidationError("category_id cannot be empty", "category_id")
	}
	return nil
}

func (uc *UpdateIssueUseCase) checkReferences(ctx context.Context, p IssuePatch) error {
	if p.CategoryID != nil {
		c, err := uc.refRepo.GetCategory(ctx, *p.CategoryID)
		if err != nil {
			uc.logger.Errorw("failed to get category", "category_id", *p.CategoryID, "error", err)
			return errors.NewInternalError("failed to update issue")
		}
		if c == nil {
			return errors.NewValidationError("unknown category", "category_id")
		}
	}
	if id := nonEmpty(p.DepartmentID); id != nil {
		d, err := uc.refRepo.GetDepartment(ctx, *id)
		if err != nil {
			uc.logger.Errorw("failed to get department", "department_id", *id, "error", err)
			return errors.NewInternalError("failed to update issue")
		}
		if d == nil {
			return errors.NewValidationError("unknown department", "department_id")
		}
	}
	if id := nonEmpty(p.AssignedTo); id != nil {
		a, err := uc.profileRepo.GetByID(ctx, *id)
		if err != nil {
			uc.logger.Errorw("failed to get assignee", "assignee_id", *id, "error", err)
			return errors.NewInternalError("failed to update issue")
		}
		if a == nil {
			return errors.NewValidationError("unknown assignee", "assigned_to")
		}
	}
	return nil
}

func applyPatch(i *issue.Issue, p IssuePatch, actor *string) (patchChange, error) {
	var change patchChange

	if p.Title != nil {
		if err := i.Retitle(*p.Title); err != nil {
			return change, err
		}
	}
	if p.Description != nil {
		if err := i.EditDescription(*p.Description); err != nil {
			return change, err
		}
	}
	if p.Severity != nil {
		if err := i.ChangeSeverity(vo.Severity(*p.Severity)); err != nil {
			return change, err
		}
	}
	if p.CategoryID != nil {
		if err := i.Recategorize(*p.CategoryID); err != nil {
			return change, err
		}
	}
	if p.DepartmentID != nil {
		i.MoveToDepartment(nonEmpty(p.DepartmentID))
	}
	if p.Location != nil {
		if err := i.SetLocation(nonEmpty(p.Location)); err != nil {
			return change, err
		}
	}
	if len(p.Metadata) > 0 {
		i.MergeMetadata(p.Metadata)
	}
	if p.AssignedTo != nil {
		change.assigneeChanged = i.AssignTo(nonEmpty(p.AssignedTo), actor)
	}
	if p.Status != nil {
		old, changed, err := i.ChangeStatus(vo.IssueStatus(*p.Status), actor)
		if err != nil {
			return change, err
		}
		change.statusChanged = changed
		change.oldStatus = old
	}
	return change, nil
}

func (uc *UpdateIssueUseCase) recordAudit(ctx context.Context, i *issue.Issue, change patchChange, p IssuePatch, actor *string) {
	if change.statusChanged {
		note := ""
		if p.StatusNote != nil {
			note = *p.StatusNote
		}
		u, err := issue.NewStatusChangeUpdate(i.ID(), change.oldStatus, i.Status(), note, actor, true)
		if err == nil {
			err = uc.updateRepo.Create(ctx, u)
		}
		if err != nil {
			uc.logger.Warnw("failed to record status change", "issue_id", i.ID(), "error", err)
		}
	}

	if change.assigneeChanged {
		content := "Assignment cleared"
		if a := i.AssignedTo(); a != nil {
			content = fmt.Sprintf("Assigned to %s", *a)
		}
		u, err := issue.NewIssueUpdate(i.ID(), vo.UpdateTypeAssignment, content, actor, false)
		if err == nil {
			err = uc.updateRepo.Create(ctx, u)
		}
		if err != nil {
			uc.logger.Warnw("failed to record assignment", "issue_id", i.ID(), "error", err)
		}
	}
}
