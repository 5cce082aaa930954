package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/candor-hq/candor/internal/shared/constants"
)

// IssueModel is the issues row. Relations are resolved by the application
// layer; cascades and the resolved_at check live in the SQL migrations.
type IssueModel struct {
	ID             string  `gorm:"primaryKey;size:36"`
	Title          string  `gorm:"size:200;not null"`
	Description    string  `gorm:"type:text;not null"`
	CategoryID     string  `gorm:"size:36;not null;index"`
	DepartmentID   *string `gorm:"size:36;index"`
	Severity       string  `gorm:"size:16;not null;index"`
	Status         string  `gorm:"size:16;not null;index;default:open"`
	AnonymousToken string  `gorm:"size:64;not null;uniqueIndex"`
	ReporterID     *string `gorm:"size:36;index"`
	AssignedTo     *string `gorm:"size:36;index"`
	Location       *string `gorm:"size:200"`
	Attachments    datatypes.JSON
	Metadata       datatypes.JSON
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
	ResolvedAt     *time.Time
}

func (IssueModel) TableName() string {
	return constants.TableIssues
}

type IssueUpdateModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	IssueID    string    `gorm:"size:36;not null;index:idx_issue_updates_issue_created,priority:1"`
	UpdateType string    `gorm:"size:20;not null"`
	Content    string    `gorm:"type:text;not null"`
	OldStatus  *string   `gorm:"size:16"`
	NewStatus  *string   `gorm:"size:16"`
	AuthorID   *string   `gorm:"size:36"`
	IsPublic   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"not null;index:idx_issue_updates_issue_created,priority:2"`
}

func (IssueUpdateModel) TableName() string {
	return constants.TableIssueUpdates
}

type AnonymousTokenModel struct {
	Token     string    `gorm:"primaryKey;size:64"`
	IssueID   string    `gorm:"size:36;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (AnonymousTokenModel) TableName() string {
	return constants.TableAnonymousTokens
}
