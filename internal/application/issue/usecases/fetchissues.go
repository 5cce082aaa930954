package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// FetchIssuesQuery filters the dashboard list. Empty fields match everything.
type FetchIssuesQuery struct {
	Status       string
	Severity     string
	CategoryID   string
	DepartmentID string
	AssignedTo   string
}

func (q FetchIssuesQuery) toFilter() (issue.Filter, error) {
	var f issue.Filter
	if q.Status != "" {
		s, err := vo.NewIssueStatus(q.Status)
		if err != nil {
			return f, errors.NewValidationError("invalid status filter", "status")
		}
		f.Status = &s
	}
	if q.Severity != "" {
		s, err := vo.NewSeverity(q.Severity)
		if err != nil {
			return f, errors.NewValidationError("invalid severity filter", "severity")
		}
		f.Severity = &s
	}
	if q.CategoryID != "" {
		v := q.CategoryID
		f.CategoryID = &v
	}
	if q.DepartmentID != "" {
		v := q.DepartmentID
		f.DepartmentID = &v
	}
	if q.AssignedTo != "" {
		v := q.AssignedTo
		f.AssignedTo = &v
	}
	return f, nil
}

type FetchIssuesUseCase struct {
	issueRepo issue.Repository
	relations *relationLoader
	logger    logger.Interface
}

func NewFetchIssuesUseCase(
	issueRepo issue.Repository,
	refRepo reference.Repository,
	profileRepo profile.Repository,
	renderer markdown.Renderer,
	logger logger.Interface,
) *FetchIssuesUseCase {
	return &FetchIssuesUseCase{
		issueRepo: issueRepo,
		relations: newRelationLoader(refRepo, profileRepo, renderer, logger),
		logger:    logger,
	}
}

// Execute returns every matching issue newest first. The list is not
// paginated, and any store failure fails the whole call.
func (uc *FetchIssuesUseCase) Execute(ctx context.Context, query FetchIssuesQuery) ([]dto.IssueDTO, error) {
	uc.logger.Infow("executing fetch issues use case", "status", query.Status, "severity", query.Severity)

	filter, err := query.toFilter()
	if err != nil {
		return nil, err
	}

	issues, err := uc.issueRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list issues", "error", err)
		return nil, errors.NewInternalError("failed to fetch issues")
	}

	rel, err := uc.relations.load(ctx, issues...)
	if err != nil {
		uc.logger.Errorw("failed to load issue relations", "error", err)
		return nil, errors.NewInternalError("failed to fetch issues")
	}

	uc.logger.Infow("issues fetched successfully", "count", len(issues))
	return dto.ToIssueDTOs(issues, rel), nil
}
