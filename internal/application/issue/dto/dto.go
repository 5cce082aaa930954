package dto

import (
	"time"

	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
)

type DepartmentDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type ProfileSummaryDTO struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IssueDTO is the staff and dashboard view. ReporterID is omitted for
// anonymous reports; the anonymous token is never part of it.
type IssueDTO struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	DescriptionHTML string                 `json:"description_html"`
	Severity        string                 `json:"severity"`
	Status          string                 `json:"status"`
	CategoryID      string                 `json:"category_id"`
	Category        *CategoryDTO           `json:"category,omitempty"`
	DepartmentID    *string                `json:"department_id,omitempty"`
	Department      *DepartmentDTO         `json:"department,omitempty"`
	IsAnonymous     bool                   `json:"is_anonymous"`
	ReporterID      *string                `json:"reporter_id,omitempty"`
	AssignedTo      *string                `json:"assigned_to,omitempty"`
	Assignee        *ProfileSummaryDTO     `json:"assignee,omitempty"`
	Location        *string                `json:"location,omitempty"`
	Attachments     []string               `json:"attachments"`
	Metadata        map[string]interface{} `json:"metadata"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	ResolvedAt      *time.Time             `json:"resolved_at,omitempty"`
	Updates         []IssueUpdateDTO       `json:"updates,omitempty"`
}

type IssueUpdateDTO struct {
	ID          string    `json:"id"`
	IssueID     string    `json:"issue_id"`
	UpdateType  string    `json:"update_type"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	OldStatus   *string   `json:"old_status,omitempty"`
	NewStatus   *string   `json:"new_status,omitempty"`
	AuthorID    *string   `json:"author_id,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicUpdateDTO is an update as the reporter sees it: no author.
type PublicUpdateDTO struct {
	UpdateType  string    `json:"update_type"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	OldStatus   *string   `json:"old_status,omitempty"`
	NewStatus   *string   `json:"new_status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TrackedIssueDTO is what a token holder gets back. It has no reporter or
// assignee identity and only public updates, oldest first.
type TrackedIssueDTO struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DescriptionHTML string            `json:"description_html"`
	Severity        string            `json:"severity"`
	Status          string            `json:"status"`
	Category        *CategoryDTO      `json:"category,omitempty"`
	Department      *DepartmentDTO    `json:"department,omitempty"`
	Location        *string           `json:"location,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	Updates         []PublicUpdateDTO `json:"updates"`
}

type NamedCountDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DailyCountDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type DashboardStatsDTO struct {
	Total              int             `json:"total"`
	Open               int             `json:"open"`
	Done               int             `json:"done"`
	ByStatus           map[string]int  `json:"by_status"`
	BySeverity         map[string]int  `json:"by_severity"`
	ByCategory         []NamedCountDTO `json:"by_category"`
	ByDepartment       []NamedCountDTO `json:"by_department"`
	AvgResolutionHours *float64        `json:"avg_resolution_hours,omitempty"`
	DailySubmissions   []DailyCountDTO `json:"daily_submissions"`
}

// RenderFunc turns markdown into sanitized HTML. Callers fall back to an
// empty string on failure.
type RenderFunc func(markdown string) string

// Relations resolves the ids an issue points at. Missing entries are left
// out of the DTO rather than failing the conversion.
type Relations struct {
	Categories  map[string]*reference.IssueCategory
	Departments map[string]*reference.Department
	Profiles    map[string]*profile.Profile
	Render      RenderFunc
}

func (r *Relations) render(s string) string {
	if r == nil || r.Render == nil {
		return ""
	}
	return r.Render(s)
}

func (r *Relations) category(id string) *CategoryDTO {
	if r == nil {
		return nil
	}
	return ToCategoryDTO(r.Categories[id])
}

func (r *Relations) department(id *string) *DepartmentDTO {
	if r == nil || id == nil {
		return nil
	}
	return ToDepartmentDTO(r.Departments[*id])
}

func (r *Relations) profile(id *string) *ProfileSummaryDTO {
	if r == nil || id == nil {
		return nil
	}
	return ToProfileSummaryDTO(r.Profiles[*id])
}

func ToDepartmentDTO(d *reference.Department) *DepartmentDTO {
	if d == nil {
		return nil
	}
	return &DepartmentDTO{
		ID:          d.ID(),
		Name:        d.Name(),
		Description: d.Description(),
	}
}

func ToCategoryDTO(c *reference.IssueCategory) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Color:       c.Color(),
		Icon:        c.Icon(),
	}
}

func ToProfileSummaryDTO(p *profile.Profile) *ProfileSummaryDTO {
	if p == nil {
		return nil
	}
	return &ProfileSummaryDTO{
		ID:       p.ID(),
		FullName: p.FullName(),
		Email:    p.Email(),
		Role:     p.Role().String(),
	}
}

func ToIssueDTO(i *issue.Issue, rel *Relations) *IssueDTO {
	if i == nil {
		return nil
	}

	out := &IssueDTO{
		ID:              i.ID(),
		Title:           i.Title(),
		Description:     i.Description(),
		DescriptionHTML: rel.render(i.Description()),
		Severity:        i.Severity().String(),
		Status:          i.Status().String(),
		CategoryID:      i.CategoryID(),
		Category:        rel.category(i.CategoryID()),
		DepartmentID:    i.DepartmentID(),
		Department:      rel.department(i.DepartmentID()),
		IsAnonymous:     i.IsAnonymous(),
		AssignedTo:      i.AssignedTo(),
		Assignee:        rel.profile(i.AssignedTo()),
		Location:        i.Location(),
		Attachments:     i.Attachments(),
		Metadata:        i.Metadata(),
		CreatedAt:       i.CreatedAt(),
		UpdatedAt:       i.UpdatedAt(),
		ResolvedAt:      i.ResolvedAt(),
	}
	if !i.IsAnonymous() {
		out.ReporterID = i.ReporterID()
	}
	return out
}

func ToIssueDTOs(issues []*issue.Issue, rel *Relations) []IssueDTO {
	out := make([]IssueDTO, 0, len(issues))
	for _, i := range issues {
		out = append(out, *ToIssueDTO(i, rel))
	}
	return out
}

func ToIssueUpdateDTO(u *issue.IssueUpdate, rel *Relations) IssueUpdateDTO {
	return IssueUpdateDTO{
		ID:          u.ID(),
		IssueID:     u.IssueID(),
		UpdateType:  u.Type().String(),
		Content:     u.Content(),
		ContentHTML: rel.render(u.Content()),
		OldStatus:   statusPtr(u.OldStatus()),
		NewStatus:   statusPtr(u.NewStatus()),
		AuthorID:    u.AuthorID(),
		IsPublic:    u.IsPublic(),
		CreatedAt:   u.CreatedAt(),
	}
}

func ToIssueUpdateDTOs(updates []*issue.IssueUpdate, rel *Relations) []IssueUpdateDTO {
	out := make([]IssueUpdateDTO, 0, len(updates))
	for _, u := range updates {
		out = append(out, ToIssueUpdateDTO(u, rel))
	}
	return out
}

// ToTrackedIssueDTO drops every private update it is handed.
func ToTrackedIssueDTO(i *issue.Issue, updates []*issue.IssueUpdate, rel *Relations) *TrackedIssueDTO {
	if i == nil {
		return nil
	}

	public := make([]PublicUpdateDTO, 0, len(updates))
	for _, u := range updates {
		if !u.IsPublic() {
			continue
		}
		public = append(public, PublicUpdateDTO{
			UpdateType:  u.Type().String(),
			Content:     u.Content(),
			ContentHTML: rel.render(u.Content()),
			OldStatus:   statusPtr(u.OldStatus()),
			NewStatus:   statusPtr(u.NewStatus()),
			CreatedAt:   u.CreatedAt(),
		})
	}

	return &TrackedIssueDTO{
		ID:              i.ID(),
		Title:           i.Title(),
		Description:     i.Description(),
		DescriptionHTML: rel.render(i.Description()),
		Severity:        i.Severity().String(),
		Status:          i.Status().String(),
		Category:        rel.category(i.CategoryID()),
		Department:      rel.department(i.DepartmentID()),
		Location:        i.Location(),
		CreatedAt:       i.CreatedAt(),
		UpdatedAt:       i.UpdatedAt(),
		ResolvedAt:      i.ResolvedAt(),
		Updates:         public,
	}
}

func statusPtr[T ~string](s *T) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
