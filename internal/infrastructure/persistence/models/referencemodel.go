package models

import (
	"time"

	"github.com/candor-hq/candor/internal/shared/constants"
)

type DepartmentModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Description string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (DepartmentModel) TableName() string {
	return constants.TableDepartments
}

type IssueCategoryModel struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Description string    `gorm:"size:500"`
	Color       string    `gorm:"size:7"`
	Icon        string    `gorm:"size:50"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (IssueCategoryModel) TableName() string {
	return constants.TableIssueCategories
}
