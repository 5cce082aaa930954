package reference

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IssueCategory carries display hints (color, icon) for the dashboard.
type IssueCategory struct {
	id          string
	name        string
	description string
	color       string
	icon        string
	createdAt   time.Time
}

func NewIssueCategory(name, description, color, icon string) (*IssueCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if color != "" && !hexColor.MatchString(color) {
		return nil, fmt.Errorf("category color must be a #rrggbb value")
	}
	return &IssueCategory{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		color:       color,
		icon:        icon,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructIssueCategory(id, name, description, color, icon string, createdAt time.Time) *IssueCategory {
	return &IssueCategory{
		id:          id,
		name:        name,
		description: description,
		color:       color,
		icon:        icon,
		createdAt:   createdAt,
	}
}

func (c *IssueCategory) ID() string           { return c.id }
func (c *IssueCategory) Name() string         { return c.name }
func (c *IssueCategory) Description() string  { return c.description }
func (c *IssueCategory) Color() string        { return c.color }
func (c *IssueCategory) Icon() string         { return c.icon }
func (c *IssueCategory) CreatedAt() time.Time { return c.createdAt }
