package mappers

import (
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
)

func DepartmentToModel(d *reference.Department) *models.DepartmentModel {
	return &models.DepartmentModel{
		ID:          d.ID(),
		Name:        d.Name(),
		Description: d.Description(),
		CreatedAt:   d.CreatedAt(),
	}
}

func DepartmentToDomain(m *models.DepartmentModel) *reference.Department {
	return reference.ReconstructDepartment(m.ID, m.Name, m.Description, m.CreatedAt.UTC())
}

func CategoryToModel(c *reference.IssueCategory) *models.IssueCategoryModel {
	return &models.IssueCategoryModel{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Color:       c.Color(),
		Icon:        c.Icon(),
		CreatedAt:   c.CreatedAt(),
	}
}

func CategoryToDomain(m *models.IssueCategoryModel) *reference.IssueCategory {
	return reference.ReconstructIssueCategory(m.ID, m.Name, m.Description, m.Color, m.Icon, m.CreatedAt.UTC())
}
