package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/mappers"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
	"github.com/candor-hq/candor/internal/shared/db"
)

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) ListDepartments(ctx context.Context) ([]*reference.Department, error) {
	var rows []models.DepartmentModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	out := make([]*reference.Department, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.DepartmentToDomain(&rows[i]))
	}
	return out, nil
}

func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]*reference.IssueCategory, error) {
	var rows []models.IssueCategoryModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]*reference.IssueCategory, 0, len(rows))
	for i := range rows {
		out = append(out, mappers.CategoryToDomain(&rows[i]))
	}
	return out, nil
}

func (r *ReferenceRepository) GetDepartment(ctx context.Context, id string) (*reference.Department, error) {
	return r.department(ctx, "id = ?", id)
}

func (r *ReferenceRepository) GetDepartmentByName(ctx context.Context, name string) (*reference.Department, error) {
	return r.department(ctx, "name = ?", name)
}

func (r *ReferenceRepository) GetCategory(ctx context.Context, id string) (*reference.IssueCategory, error) {
	return r.category(ctx, "id = ?", id)
}

func (r *ReferenceRepository) GetCategoryByName(ctx context.Context, name string) (*reference.IssueCategory, error) {
	return r.category(ctx, "name = ?", name)
}

func (r *ReferenceRepository) department(ctx context.Context, query string, arg interface{}) (*reference.Department, error) {
	var m models.DepartmentModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return mappers.DepartmentToDomain(&m), nil
}

func (r *ReferenceRepository) category(ctx context.Context, query string, arg interface{}) (*reference.IssueCategory, error) {
	var m models.IssueCategoryModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return mappers.CategoryToDomain(&m), nil
}

func (r *ReferenceRepository) SaveDepartment(ctx context.Context, d *reference.Department) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.DepartmentToModel(d)).Error; err != nil {
		return fmt.Errorf("failed to save department: %w", err)
	}
	return nil
}

func (r *ReferenceRepository) SaveCategory(ctx context.Context, c *reference.IssueCategory) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(mappers.CategoryToModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}
