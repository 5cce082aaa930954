package issue

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/shared/biztime"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 200
	MaxAttachments       = 10
)

// Issue is the root aggregate of a report. Its anonymous token is fixed at
// construction and never changes. resolvedAt is non-nil exactly when the
// status is resolved or closed.
type Issue struct {
	id             string
	title          string
	description    string
	categoryID     string
	departmentID   *string
	severity       vo.Severity
	status         vo.IssueStatus
	anonymousToken string
	reporterID     *string
	assignedTo     *string
	location       *string
	attachments    []string
	metadata       map[string]interface{}
	createdAt      time.Time
	updatedAt      time.Time
	resolvedAt     *time.Time
	events         []interface{}
}

// NewIssueParams carries the submitter's input. ReporterID is nil for an
// anonymous submission.
type NewIssueParams struct {
	Title          string
	Description    string
	CategoryID     string
	DepartmentID   *string
	Severity       vo.Severity
	AnonymousToken string
	ReporterID     *string
	Location       *string
	Attachments    []string
	Metadata       map[string]interface{}
}

func NewIssue(p NewIssueParams) (*Issue, error) {
	if err := validateTitle(p.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(p.Description); err != nil {
		return nil, err
	}
	if p.CategoryID == "" {
		return nil, fmt.Errorf("category_id is required")
	}
	if !p.Severity.IsValid() {
		return nil, fmt.Errorf("invalid severity: %s", p.Severity)
	}
	if p.AnonymousToken == "" {
		return nil, fmt.Errorf("anonymous token is required")
	}
	if p.Location != nil && utf8.RuneCountInString(*p.Location) > MaxLocationLength {
		return nil, fmt.Errorf("location exceeds maximum length of %d characters", MaxLocationLength)
	}
	if len(p.Attachments) > MaxAttachments {
		return nil, fmt.Errorf("at most %d attachments are allowed", MaxAttachments)
	}

	attachments := make([]string, len(p.Attachments))
	copy(attachments, p.Attachments)
	metadata := make(map[string]interface{}, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}

	now := biztime.NowUTC()
	i := &Issue{
		id:             uuid.NewString(),
		title:          p.Title,
		description:    p.Description,
		categoryID:     p.CategoryID,
		departmentID:   p.DepartmentID,
		severity:       p.Severity,
		status:         vo.StatusOpen,
		anonymousToken: p.AnonymousToken,
		reporterID:     p.ReporterID,
		location:       p.Location,
		attachments:    attachments,
		metadata:       metadata,
		createdAt:      now,
		updatedAt:      now,
	}
	i.recordEvent(NewIssueSubmittedEvent(i, now))
	return i, nil
}

// ReconstructIssueParams mirrors a stored row.
type ReconstructIssueParams struct {
	ID             string
	Title          string
	Description    string
	CategoryID     string
	DepartmentID   *string
	Severity       vo.Severity
	Status         vo.IssueStatus
	AnonymousToken string
	ReporterID     *string
	AssignedTo     *string
	Location       *string
	Attachments    []string
	Metadata       map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ResolvedAt     *time.Time
}

func ReconstructIssue(p ReconstructIssueParams) (*Issue, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("issue ID cannot be empty")
	}
	if p.AnonymousToken == "" {
		return nil, fmt.Errorf("issue %s has no anonymous token", p.ID)
	}
	if !p.Severity.IsValid() {
		return nil, fmt.Errorf("issue %s has invalid severity %q", p.ID, p.Severity)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("issue %s has invalid status %q", p.ID, p.Status)
	}

	if p.Attachments == nil {
		p.Attachments = []string{}
	}
	if p.Metadata == nil {
		p.Metadata = make(map[string]interface{})
	}

	return &Issue{
		id:             p.ID,
		title:          p.Title,
		description:    p.Description,
		categoryID:     p.CategoryID,
		departmentID:   p.DepartmentID,
		severity:       p.Severity,
		status:         p.Status,
		anonymousToken: p.AnonymousToken,
		reporterID:     p.ReporterID,
		assignedTo:     p.AssignedTo,
		location:       p.Location,
		attachments:    p.Attachments,
		metadata:       p.Metadata,
		createdAt:      p.CreatedAt,
		updatedAt:      p.UpdatedAt,
		resolvedAt:     p.ResolvedAt,
	}, nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", MaxTitleLength)
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return fmt.Errorf("description is required")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("description exceeds maximum length of %d characters", MaxDescriptionLength)
	}
	return nil
}

func (i *Issue) ID() string             { return i.id }
func (i *Issue) Title() string          { return i.title }
func (i *Issue) Description() string    { return i.description }
func (i *Issue) CategoryID() string     { return i.categoryID }
func (i *Issue) DepartmentID() *string  { return i.departmentID }
func (i *Issue) Severity() vo.Severity  { return i.severity }
func (i *Issue) Status() vo.IssueStatus { return i.status }
func (i *Issue) AnonymousToken() string { return i.anonymousToken }
func (i *Issue) ReporterID() *string    { return i.reporterID }
func (i *Issue) AssignedTo() *string    { return i.assignedTo }
func (i *Issue) Location() *string      { return i.location }
func (i *Issue) CreatedAt() time.Time   { return i.createdAt }
func (i *Issue) UpdatedAt() time.Time   { return i.updatedAt }
func (i *Issue) ResolvedAt() *time.Time { return i.resolvedAt }
func (i *Issue) IsAnonymous() bool      { return i.reporterID == nil }

func (i *Issue) Attachments() []string {
	out := make([]string, len(i.attachments))
	copy(out, i.attachments)
	return out
}

func (i *Issue) Metadata() map[string]interface{} {
	out := make(map[string]interface{}, len(i.metadata))
	for k, v := range i.metadata {
		out[k] = v
	}
	return out
}

// ChangeStatus moves the issue to newStatus and keeps resolvedAt in step.
// Any valid status is accepted, including leaving closed. It returns the
// previous status and whether anything changed.
func (i *Issue) ChangeStatus(newStatus vo.IssueStatus, changedBy *string) (vo.IssueStatus, bool, error) {
	old := i.status
	if !newStatus.IsValid() {
		return old, false, fmt.Errorf("invalid status: %s", newStatus)
	}
	if old == newStatus {
		return old, false, nil
	}

	now := biztime.NowUTC()
	i.status = newStatus
	i.updatedAt = now

	switch {
	case newStatus.IsDone() && i.resolvedAt == nil:
		i.resolvedAt = &now
	case !newStatus.IsDone():
		i.resolvedAt = nil
	}

	i.recordEvent(NewIssueStatusChangedEvent(i, old, newStatus, changedBy, now))
	return old, true, nil
}

// AssignTo sets or clears the assignee. It reports whether the value changed.
func (i *Issue) AssignTo(assigneeID *string, assignedBy *string) bool {
	if equalPtr(i.assignedTo, assigneeID) {
		return false
	}
	now := biztime.NowUTC()
	i.assignedTo = copyPtr(assigneeID)
	i.updatedAt = now
	i.recordEvent(NewIssueAssignedEvent(i, assignedBy, now))
	return true
}

func (i *Issue) ChangeSeverity(s vo.Severity) error {
	if !s.IsValid() {
		return fmt.Errorf("invalid severity: %s", s)
	}
	if i.severity != s {
		i.severity = s
		i.touch()
	}
	return nil
}

func (i *Issue) Retitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if i.title != title {
		i.title = title
		i.touch()
	}
	return nil
}

func (i *Issue) EditDescription(description string) error {
	if err := validateDescription(description); err != nil {
		return err
	}
	if i.description != description {
		i.description = description
		i.touch()
	}
	return nil
}

func (i *Issue) Recategorize(categoryID string) error {
	if categoryID == "" {
		return fmt.Errorf("category_id is required")
	}
	if i.categoryID != categoryID {
		i.categoryID = categoryID
		i.touch()
	}
	return nil
}

// MoveToDepartment sets or clears the department.
func (i *Issue) MoveToDepartment(departmentID *string) {
	if !equalPtr(i.departmentID, departmentID) {
		i.departmentID = copyPtr(departmentID)
		i.touch()
	}
}

func (i *Issue) SetLocation(location *string) error {
	if location != nil && utf8.RuneCountInString(*location) > MaxLocationLength {
		return fmt.Errorf("location exceeds maximum length of %d characters", MaxLocationLength)
	}
	if !equalPtr(i.location, location) {
		i.location = copyPtr(location)
		i.touch()
	}
	return nil
}

// MergeMetadata overlays entries; a nil value deletes the key.
func (i *Issue) MergeMetadata(patch map[string]interface{}) {
	if len(patch) == 0 {
		return
	}
	for k, v := range patch {
		if v == nil {
			delete(i.metadata, k)
			continue
		}
		i.metadata[k] = v
	}
	i.touch()
}

func (i *Issue) touch() {
	i.updatedAt = biztime.NowUTC()
}

func (i *Issue) recordEvent(event interface{}) {
	i.events = append(i.events, event)
}

// GetEvents returns and clears the recorded domain events.
func (i *Issue) GetEvents() []interface{} {
	out := i.events
	i.events = nil
	return out
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
