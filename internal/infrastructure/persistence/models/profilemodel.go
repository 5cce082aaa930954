package models

import (
	"time"

	"github.com/candor-hq/candor/internal/shared/constants"
)

type ProfileModel struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	FullName     string    `gorm:"size:100;not null"`
	Role         string    `gorm:"size:16;not null;default:employee;index"`
	DepartmentID *string   `gorm:"size:36;index"`
	ManagerID    *string   `gorm:"size:36;index"`
	EmployeeID   *string   `gorm:"size:50"`
	JobTitle     *string   `gorm:"size:100"`
	Phone        *string   `gorm:"size:30"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (ProfileModel) TableName() string {
	return constants.TableProfiles
}

// AccountModel holds credentials. It never leaves the infrastructure layer
// except through the Account aggregate.
type AccountModel struct {
	ID            string  `gorm:"primaryKey;size:36"`
	Email         string  `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash  string  `gorm:"size:255"`
	GoogleSubject *string `gorm:"size:255;uniqueIndex"`
	LastSignInAt  *time.Time
	CreatedAt     time.Time `gorm:"not null"`
}

func (AccountModel) TableName() string {
	return constants.TableAccounts
}

// All lists every model for AutoMigrate in sqlite mode and tests.
func All() []interface{} {
	return []interface{}{
		&DepartmentModel{},
		&IssueCategoryModel{},
		&AccountModel{},
		&ProfileModel{},
		&IssueModel{},
		&IssueUpdateModel{},
		&AnonymousTokenModel{},
	}
}
