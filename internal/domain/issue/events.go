package issue

import (
	"time"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/shared/events"
)

const (
	EventTypeIssueSubmitted     = "issue.submitted"
	EventTypeIssueStatusChanged = "issue.status_changed"
	EventTypeIssueAssigned      = "issue.assigned"
)

// IssueSubmittedEvent deliberately carries no reporter or token fields so
// subscribers cannot leak them.
type IssueSubmittedEvent struct {
	events.BaseEvent
	Title        string
	Severity     vo.Severity
	CategoryID   string
	DepartmentID *string
	Anonymous    bool
}

func NewIssueSubmittedEvent(i *Issue, at time.Time) IssueSubmittedEvent {
	return IssueSubmittedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: i.id,
			EventType:   EventTypeIssueSubmitted,
			OccurredAt:  at,
		},
		Title:        i.title,
		Severity:     i.severity,
		CategoryID:   i.categoryID,
		DepartmentID: copyPtr(i.departmentID),
		Anonymous:    i.IsAnonymous(),
	}
}

// IssueStatusChangedEvent includes ReporterID only for named reports so the
// reporter can be notified. It is nil for anonymous ones.
type IssueStatusChangedEvent struct {
	events.BaseEvent
	Title      string
	OldStatus  vo.IssueStatus
	NewStatus  vo.IssueStatus
	ReporterID *string
	ChangedBy  *string
}

func NewIssueStatusChangedEvent(i *Issue, from, to vo.IssueStatus, changedBy *string, at time.Time) IssueStatusChangedEvent {
	return IssueStatusChangedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: i.id,
			EventType:   EventTypeIssueStatusChanged,
			OccurredAt:  at,
		},
		Title:      i.title,
		OldStatus:  from,
		NewStatus:  to,
		ReporterID: copyPtr(i.reporterID),
		ChangedBy:  copyPtr(changedBy),
	}
}

type IssueAssignedEvent struct {
	events.BaseEvent
	Title      string
	AssigneeID *string
	AssignedBy *string
}

func NewIssueAssignedEvent(i *Issue, assignedBy *string, at time.Time) IssueAssignedEvent {
	return IssueAssignedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: i.id,
			EventType:   EventTypeIssueAssigned,
			OccurredAt:  at,
		},
		Title:      i.title,
		AssigneeID: copyPtr(i.assignedTo),
		AssignedBy: copyPtr(assignedBy),
	}
}
