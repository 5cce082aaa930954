package issue

import (
	"github.com/candor-hq/candor/internal/application/issue/usecases"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

type CreateIssueRequest struct {
	Title        string                 `json:"title" binding:"required,max=200"`
	Description  string                 `json:"description" binding:"required,max=10000"`
	Severity     string                 `json:"severity" binding:"required,severity"`
	CategoryID   string                 `json:"category_id" binding:"required"`
	DepartmentID *string                `json:"department_id,omitempty"`
	Location     *string                `json:"location,omitempty" binding:"omitempty,max=200"`
	Attachments  []string               `json:"attachments,omitempty" binding:"omitempty,max=10,dive,max=255"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	// Anonymous defaults to true when omitted.
	Anonymous *bool `json:"is_anonymous,omitempty"`
}

func (r *CreateIssueRequest) ToCommand(p authorization.Principal) usecases.CreateIssueCommand {
	anonymous := true
	if r.Anonymous != nil {
		anonymous = *r.Anonymous
	}
	return usecases.CreateIssueCommand{
		Title:        r.Title,
		Description:  r.Description,
		Severity:     r.Severity,
		CategoryID:   r.CategoryID,
		DepartmentID: r.DepartmentID,
		Location:     r.Location,
		Attachments:  r.Attachments,
		Metadata:     r.Metadata,
		Anonymous:    anonymous,
		Principal:    p,
	}
}

// CreateIssueResponse shows the tracking token exactly once.
type CreateIssueResponse struct {
	ID             string `json:"id"`
	AnonymousToken string `json:"anonymous_token"`
	Status         string `json:"status"`
	TrackPath      string `json:"track_path"`
}

type UpdateIssueRequest struct {
	Status       *string                `json:"status,omitempty" binding:"omitempty,issue_status"`
	StatusNote   *string                `json:"status_note,omitempty" binding:"omitempty,max=2000"`
	Severity     *string                `json:"severity,omitempty" binding:"omitempty,severity"`
	AssignedTo   *string                `json:"assigned_to,omitempty"`
	DepartmentID *string                `json:"department_id,omitempty"`
	CategoryID   *string                `json:"category_id,omitempty"`
	Location     *string                `json:"location,omitempty" binding:"omitempty,max=200"`
	Title        *string                `json:"title,omitempty" binding:"omitempty,max=200"`
	Description  *string                `json:"description,omitempty" binding:"omitempty,max=10000"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

func (r *UpdateIssueRequest) ToPatch() usecases.IssuePatch {
	return usecases.IssuePatch{
		Status:       r.Status,
		StatusNote:   r.StatusNote,
		Severity:     r.Severity,
		AssignedTo:   r.AssignedTo,
		DepartmentID: r.DepartmentID,
		CategoryID:   r.CategoryID,
		Location:     r.Location,
		Title:        r.Title,
		Description:  r.Description,
		Metadata:     r.Metadata,
	}
}

type AddIssueUpdateRequest struct {
	UpdateType string `json:"update_type" binding:"required,update_type"`
	Content    string `json:"content" binding:"required,max=10000"`
	IsPublic   bool   `json:"is_public"`
}

type PresignUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,max=100"`
}
