package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/mappers"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
	"github.com/candor-hq/candor/internal/shared/db"
)

type IssueRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{
		db:     db,
		mapper: mappers.NewIssueMapper(),
	}
}

func (r *IssueRepository) Create(ctx context.Context, i *issue.Issue, token *issue.AnonymousToken) error {
	model, err := r.mapper.ToModel(i)
	if err != nil {
		return err
	}

	create := func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		if token != nil {
			if err := tx.Create(r.mapper.TokenToModel(token)).Error; err != nil {
				return fmt.Errorf("failed to create anonymous token: %w", err)
			}
		}
		return nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if token == nil {
		return create(tx)
	}
	return tx.Transaction(create)
}

// Update writes every mutable column. anonymous_token and created_at are
// omitted so they can never change after insert.
func (r *IssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	model, err := r.mapper.ToModel(i)
	if err != nil {
		return err
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IssueModel{}).
		Where("id = ?", model.ID).
		Select(
			"title", "description", "category_id", "department_id", "severity", "status",
			"assigned_to", "location", "attachments", "metadata", "updated_at", "resolved_at",
		).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update issue: %w", result.Error)
	}
	return nil
}

func (r *IssueRepository) GetByID(ctx context.Context, id string) (*issue.Issue, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByAnonymousToken is an exact, case-sensitive match.
func (r *IssueRepository) GetByAnonymousToken(ctx context.Context, token string) (*issue.Issue, error) {
	return r.first(ctx, "anonymous_token = ?", token)
}

func (r *IssueRepository) first(ctx context.Context, query string, arg interface{}) (*issue.Issue, error) {
	var model models.IssueModel
	err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *IssueRepository) List(ctx context.Context, filter issue.Filter) ([]*issue.Issue, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.IssueModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", filter.Severity.String())
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var rows []models.IssueModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *IssueRepository) ListResolvedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*issue.Issue, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", vo.StatusResolved.String()).
		Where("resolved_at IS NOT NULL AND resolved_at < ?", cutoff).
		Order("resolved_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.IssueModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale resolved issues: %w", err)
	}
	return r.toDomainList(rows)
}

func (r *IssueRepository) toDomainList(rows []models.IssueModel) ([]*issue.Issue, error) {
	out := make([]*issue.Issue, 0, len(rows))
	for i := range rows {
		item, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

type IssueUpdateRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewIssueUpdateRepository(db *gorm.DB) *IssueUpdateRepository {
	return &IssueUpdateRepository{db: db, mapper: mappers.NewIssueMapper()}
}

func (r *IssueUpdateRepository) Create(ctx context.Context, u *issue.IssueUpdate) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.UpdateToModel(u)).Error; err != nil {
		return fmt.Errorf("failed to create issue update: %w", err)
	}
	return nil
}

func (r *IssueUpdateRepository) ListByIssue(ctx context.Context, issueID string, publicOnly bool) ([]*issue.IssueUpdate, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("issue_id = ?", issueID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var rows []models.IssueUpdateModel
	if err := query.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list issue updates: %w", err)
	}

	out := make([]*issue.IssueUpdate, 0, len(rows))
	for i := range rows {
		u, err := r.mapper.UpdateToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type AnonymousTokenRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewAnonymousTokenRepository(db *gorm.DB) *AnonymousTokenRepository {
	return &AnonymousTokenRepository{db: db, mapper: mappers.NewIssueMapper()}
}

func (r *AnonymousTokenRepository) GetByToken(ctx context.Context, token string) (*issue.AnonymousToken, error) {
	var model models.AnonymousTokenModel
	err := db.GetTxFromContext(ctx, r.db).Where("token = ?", token).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get anonymous token: %w", err)
	}
	return r.mapper.TokenToDomain(&model), nil
}
