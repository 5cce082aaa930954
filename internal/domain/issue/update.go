package issue

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/shared/biztime"
)

const MaxUpdateContentLength = 5000

// IssueUpdate is one entry of an issue's audit trail. Only public entries
// are visible to the reporter through the tracking page.
type IssueUpdate struct {
	id         string
	issueID    string
	updateType vo.UpdateType
	content    string
	oldStatus  *vo.IssueStatus
	newStatus  *vo.IssueStatus
	authorID   *string
	isPublic   bool
	createdAt  time.Time
}

// NewIssueUpdate creates a comment, assignment or resolution entry.
// Status changes go through NewStatusChangeUpdate.
func NewIssueUpdate(issueID string, t vo.UpdateType, content string, authorID *string, isPublic bool) (*IssueUpdate, error) {
	if issueID == "" {
		return nil, fmt.Errorf("issue ID is required")
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid update type: %s", t)
	}
	if t == vo.UpdateTypeStatusChange {
		return nil, fmt.Errorf("status changes must carry old and new status")
	}
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(content) > MaxUpdateContentLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", MaxUpdateContentLength)
	}

	return &IssueUpdate{
		id:         uuid.NewString(),
		issueID:    issueID,
		updateType: t,
		content:    content,
		authorID:   copyPtr(authorID),
		isPublic:   isPublic,
		createdAt:  biztime.NowUTC(),
	}, nil
}

// NewStatusChangeUpdate records a from → to move. An empty note gets a generated one.
func NewStatusChangeUpdate(issueID string, from, to vo.IssueStatus, note string, authorID *string, isPublic bool) (*IssueUpdate, error) {
	if issueID == "" {
		return nil, fmt.Errorf("issue ID is required")
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("invalid status transition %s -> %s", from, to)
	}
	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", from, to)
	}
	if utf8.RuneCountInString(note) > MaxUpdateContentLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", MaxUpdateContentLength)
	}

	return &IssueUpdate{
		id:         uuid.NewString(),
		issueID:    issueID,
		updateType: vo.UpdateTypeStatusChange,
		content:    note,
		oldStatus:  &from,
		newStatus:  &to,
		authorID:   copyPtr(authorID),
		isPublic:   isPublic,
		createdAt:  biztime.NowUTC(),
	}, nil
}

func ReconstructIssueUpdate(
	id, issueID string,
	t vo.UpdateType,
	content string,
	oldStatus, newStatus *vo.IssueStatus,
	authorID *string,
	isPublic bool,
	createdAt time.Time,
) (*IssueUpdate, error) {
	if id == "" || issueID == "" {
		return nil, fmt.Errorf("issue update requires id and issue id")
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("issue update %s has invalid type %q", id, t)
	}
	return &IssueUpdate{
		id:         id,
		issueID:    issueID,
		updateType: t,
		content:    content,
		oldStatus:  oldStatus,
		newStatus:  newStatus,
		authorID:   authorID,
		isPublic:   isPublic,
		createdAt:  createdAt,
	}, nil
}

func (u *IssueUpdate) ID() string                 { return u.id }
func (u *IssueUpdate) IssueID() string            { return u.issueID }
func (u *IssueUpdate) Type() vo.UpdateType        { return u.updateType }
func (u *IssueUpdate) Content() string            { return u.content }
func (u *IssueUpdate) OldStatus() *vo.IssueStatus { return u.oldStatus }
func (u *IssueUpdate) NewStatus() *vo.IssueStatus { return u.newStatus }
func (u *IssueUpdate) AuthorID() *string          { return u.authorID }
func (u *IssueUpdate) IsPublic() bool             { return u.isPublic }
func (u *IssueUpdate) CreatedAt() time.Time       { return u.createdAt }
