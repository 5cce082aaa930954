package usecases

import (
	"context"
	"time"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

const (
	defaultStatsWindowDays = 30
	maxStatsWindowDays     = 365
)

type GetDashboardStatsQuery struct {
	Capabilities authorization.Capabilities
	// Days is the window for daily submissions. Zero means 30.
	Days int
}

type GetDashboardStatsUseCase struct {
	issueRepo issue.Repository
	refRepo   reference.Repository
	logger    logger.Interface
}

func NewGetDashboardStatsUseCase(
	issueRepo issue.Repository,
	refRepo reference.Repository,
	logger logger.Interface,
) *GetDashboardStatsUseCase {
	return &GetDashboardStatsUseCase{
		issueRepo: issueRepo,
		refRepo:   refRepo,
		logger:    logger,
	}
}

func (uc *GetDashboardStatsUseCase) Execute(ctx context.Context, query GetDashboardStatsQuery) (*dto.DashboardStatsDTO, error) {
	uc.logger.Infow("executing get dashboard stats use case", "days", query.Days)

	if !query.Capabilities.CanViewDashboard {
		return nil, errors.NewForbiddenError("not allowed to view the dashboard")
	}

	days := query.Days
	if days <= 0 {
		days = defaultStatsWindowDays
	}
	if days > maxStatsWindowDays {
		return nil, errors.NewValidationError("window too large", "days")
	}

	issues, err := uc.issueRepo.List(ctx, issue.Filter{})
	if err != nil {
		uc.logger.Errorw("failed to list issues", "error", err)
		return nil, errors.NewInternalError("failed to compute dashboard stats")
	}
	categories, err := uc.refRepo.ListCategories(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "error", err)
		return nil, errors.NewInternalError("failed to compute dashboard stats")
	}
	departments, err := uc.refRepo.ListDepartments(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list departments", "error", err)
		return nil, errors.NewInternalError("failed to compute dashboard stats")
	}

	return computeStats(issues, categories, departments, days, biztime.NowUTC()), nil
}

func computeStats(issues []*issue.Issue, categories []*reference.IssueCategory, departments []*reference.Department, days int, now time.Time) *dto.DashboardStatsDTO {
	stats := &dto.DashboardStatsDTO{
		Total:      len(issues),
		ByStatus:   make(map[string]int, len(vo.AllStatuses)),
		BySeverity: make(map[string]int, len(vo.AllSeverities)),
	}

	for s, n := range issue.CountByStatus(issues) {
		stats.ByStatus[s.String()] = n
		if s.IsDone() {
			stats.Done += n
		} else {
			stats.Open += n
		}
	}
	for _, s := range vo.AllSeverities {
		stats.BySeverity[s.String()] = 0
	}

	byCategory := make(map[string]int)
	byDepartment := make(map[string]int)
	unassigned := 0
	var resolvedHours float64
	resolvedCount := 0

	today := now.Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))
	daily := make(map[string]int, days)

	for _, i := range issues {
		stats.BySeverity[i.Severity().String()]++
		byCategory[i.CategoryID()]++
		if d := i.DepartmentID(); d != nil {
			byDepartment[*d]++
		} else {
			unassigned++
		}
		if r := i.ResolvedAt(); r != nil {
			resolvedHours += r.Sub(i.CreatedAt()).Hours()
			resolvedCount++
		}
		if created := i.CreatedAt().UTC(); !created.Before(start) {
			daily[created.Format(time.DateOnly)]++
		}
	}

	stats.ByCategory = make([]dto.NamedCountDTO, 0, len(categories))
	for _, c := range categories {
		stats.ByCategory = append(stats.ByCategory, dto.NamedCountDTO{ID: c.ID(), Name: c.Name(), Count: byCategory[c.ID()]})
	}
	stats.ByDepartment = make([]dto.NamedCountDTO, 0, len(departments)+1)
	for _, d := range departments {
		stats.ByDepartment = append(stats.ByDepartment, dto.NamedCountDTO{ID: d.ID(), Name: d.Name(), Count: byDepartment[d.ID()]})
	}
	if unassigned > 0 {
		stats.ByDepartment = append(stats.ByDepartment, dto.NamedCountDTO{Name: "Unassigned", Count: unassigned})
	}

	if resolvedCount > 0 {
		avg := resolvedHours / float64(resolvedCount)
		stats.AvgResolutionHours = &avg
	}

	stats.DailySubmissions = make([]dto.DailyCountDTO, 0, days)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		stats.DailySubmissions = append(stats.DailySubmissions, dto.DailyCountDTO{Date: key, Count: daily[key]})
	}
	return stats
}
