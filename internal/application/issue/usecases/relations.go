package usecases

import (
	"context"
	"fmt"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// relationLoader resolves the category, department and assignee of a set of
// issues with one query per table.
type relationLoader struct {
	refRepo     reference.Repository
	profileRepo profile.Repository
	renderer    markdown.Renderer
	logger      logger.Interface
}

func newRelationLoader(refRepo reference.Repository, profileRepo profile.Repository, renderer markdown.Renderer, log logger.Interface) *relationLoader {
	return &relationLoader{
		refRepo:     refRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		logger:      log,
	}
}

func (l *relationLoader) render(s string) string {
	if l.renderer == nil || s == "" {
		return ""
	}
	html, err := l.renderer.Render(s)
	if err != nil {
		l.logger.Warnw("failed to render markdown", "error", err)
		return ""
	}
	return html
}

func (l *relationLoader) load(ctx context.Context, issues ...*issue.Issue) (*dto.Relations, error) {
	rel := &dto.Relations{
		Categories:  make(map[string]*reference.IssueCategory),
		Departments: make(map[string]*reference.Department),
		Profiles:    make(map[string]*profile.Profile),
		Render:      l.render,
	}

	categories, err := l.refRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range categories {
		rel.Categories[c.ID()] = c
	}

	departments, err := l.refRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	for _, d := range departments {
		rel.Departments[d.ID()] = d
	}

	if l.profileRepo == nil {
		return rel, nil
	}
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, i := range issues {
		if a := i.AssignedTo(); a != nil {
			if _, ok := seen[*a]; !ok {
				seen[*a] = struct{}{}
				ids = append(ids, *a)
			}
		}
	}
	if len(ids) == 0 {
		return rel, nil
	}
	profiles, err := l.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load assignees: %w", err)
	}
	for _, p := range profiles {
		rel.Profiles[p.ID()] = p
	}
	return rel, nil
}
