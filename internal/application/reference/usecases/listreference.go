package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type ListDepartmentsExecutor interface {
	Execute(ctx context.Context) ([]dto.DepartmentDTO, error)
}

type ListCategoriesExecutor interface {
	Execute(ctx context.Context) ([]dto.CategoryDTO, error)
}

// ListDepartmentsUseCase backs the department picker on the report form.
type ListDepartmentsUseCase struct {
	repo   reference.Repository
	logger logger.Interface
}

func NewListDepartmentsUseCase(repo reference.Repository, logger logger.Interface) *ListDepartmentsUseCase {
	return &ListDepartmentsUseCase{repo: repo, logger: logger}
}

func (uc *ListDepartmentsUseCase) Execute(ctx context.Context) ([]dto.DepartmentDTO, error) {
	departments, err := uc.repo.ListDepartments(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list departments", "error", err)
		return nil, errors.NewInternalError("failed to list departments")
	}

	out := make([]dto.DepartmentDTO, 0, len(departments))
	for _, d := range departments {
		out = append(out, *dto.ToDepartmentDTO(d))
	}
	return out, nil
}

type ListCategoriesUseCase struct {
	repo   reference.Repository
	logger logger.Interface
}

func NewListCategoriesUseCase(repo reference.Repository, logger logger.Interface) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{repo: repo, logger: logger}
}

func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := uc.repo.ListCategories(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list categories", "error", err)
		return nil, errors.NewInternalError("failed to list categories")
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, *dto.ToCategoryDTO(c))
	}
	return out, nil
}
