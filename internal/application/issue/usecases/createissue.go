package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// CreateIssueCommand is a new report. Principal is the caller; with
// Anonymous set, or without a session, no reporter is recorded.
type CreateIssueCommand struct {
	Title        string
	Description  string
	Severity     string
	CategoryID   string
	DepartmentID *string
	Location     *string
	Attachments  []string
	Metadata     map[string]interface{}
	Anonymous    bool
	Principal    authorization.Principal
}

// CreateIssueResult carries the only copy of the token the submitter will
// ever be shown.
type CreateIssueResult struct {
	Issue *dto.IssueDTO
	Token string
}

type CreateIssueUseCase struct {
	issueRepo issue.Repository
	refRepo   reference.Repository
	tokens    TokenGenerator
	txManager TransactionRunner
	publisher EventPublisher
	tokenTTL  time.Duration
	relations *relationLoader
	logger    logger.Interface
}

func NewCreateIssueUseCase(
	issueRepo issue.Repository,
	refRepo reference.Repository,
	tokens TokenGenerator,
	txManager TransactionRunner,
	publisher EventPublisher,
	tokenTTL time.Duration,
	renderer markdown.Renderer,
	logger logger.Interface,
) *CreateIssueUseCase {
	return &CreateIssueUseCase{
		issueRepo: issueRepo,
		refRepo:   refRepo,
		tokens:    tokens,
		txManager: txManager,
		publisher: publisher,
		tokenTTL:  tokenTTL,
		relations: newRelationLoader(refRepo, nil, renderer, logger),
		logger:    logger,
	}
}

func (uc *CreateIssueUseCase) Execute(ctx context.Context, cmd CreateIssueCommand) (*CreateIssueResult, error) {
	anonymous := cmd.Anonymous || !cmd.Principal.IsAuthenticated()
	uc.logger.Infow("executing create issue use case", "severity", cmd.Severity, "category_id", cmd.CategoryID, "anonymous", anonymous)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid create issue command", "error", err)
		return nil, err
	}

	if err := uc.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}

	var reporterID *string
	if !anonymous {
		id := cmd.Principal.UserID
		reporterID = &id
	}

	var (
		created *issue.Issue
		token   string
	)
	err := uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		token, err = uc.tokens.Generate()
		if err != nil {
			uc.logger.Errorw("failed to generate anonymous token", "error", err)
			return errors.NewInternalError("failed to submit issue")
		}

		created, err = issue.NewIssue(issue.NewIssueParams{
			Title:          cmd.Title,
			Description:    cmd.Description,
			CategoryID:     cmd.CategoryID,
			DepartmentID:   nonEmpty(cmd.DepartmentID),
			Severity:       vo.Severity(cmd.Severity),
			AnonymousToken: token,
			ReporterID:     reporterID,
			Location:       nonEmpty(cmd.Location),
			Attachments:    cmd.Attachments,
			Metadata:       cmd.Metadata,
		})
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		tokenRow, err := issue.NewAnonymousToken(token, created.ID(), uc.tokenTTL)
		if err != nil {
			return errors.NewInternalError("failed to submit issue")
		}

		if err := uc.issueRepo.Create(ctx, created, tokenRow); err != nil {
			uc.logger.Errorw("failed to save issue", "error", err)
			return errors.NewInternalError("failed to submit issue")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := publishEvents(uc.publisher, created.GetEvents()); err != nil {
		uc.logger.Warnw("failed to publish issue events", "issue_id", created.ID(), "error", err)
	}

	rel, err := uc.relations.load(ctx, created)
	if err != nil {
		uc.logger.Warnw("failed to load issue relations", "issue_id", created.ID(), "error", err)
		rel = nil
	}

	uc.logger.Infow("issue submitted successfully", "issue_id", created.ID(), "severity", created.Severity())

	return &CreateIssueResult{
		Issue: dto.ToIssueDTO(created, rel),
		Token: token,
	}, nil
}

func (uc *CreateIssueUseCase) validateCommand(cmd CreateIssueCommand) error {
	var missing []string
	if strings.TrimSpace(cmd.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		missing = append(missing, "description")
	}
	if cmd.Severity == "" {
		missing = append(missing, "severity")
	}
	if cmd.CategoryID == "" {
		missing = append(missing, "category_id")
	}
	if len(missing) > 0 {
		return errors.NewValidationError("missing required fields", missing...)
	}

	if !vo.Severity(cmd.Severity).IsValid() {
		return errors.NewValidationError("invalid severity", "severity")
	}
	return nil
}

func (uc *CreateIssueUseCase) checkReferences(ctx context.Context, cmd CreateIssueCommand) error {
	category, err := uc.refRepo.GetCategory(ctx, cmd.CategoryID)
	if err != nil {
		uc.logger.Errorw("failed to get category", "category_id", cmd.CategoryID, "error", err)
		return errors.NewInternalError("failed to submit issue")
	}
	if category == nil {
		return errors.NewValidationError("unknown category", "category_id")
	}

	if dept := nonEmpty(cmd.DepartmentID); dept != nil {
		department, err := uc.refRepo.GetDepartment(ctx, *dept)
		if err != nil {
			uc.logger.Errorw("failed to get department", "department_id", *dept, "error", err)
			return errors.NewInternalError("failed to submit issue")
		}
		if department == nil {
			return errors.NewValidationError("unknown department", "department_id")
		}
	}
	return nil
}

// nonEmpty treats a pointer to "" as absent.
func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
