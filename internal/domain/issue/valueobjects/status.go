package valueobjects

import "fmt"

type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// AllStatuses is in lifecycle order.
var AllStatuses = []IssueStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// forwardTransitions are the moves offered to staff. The store itself accepts
// any valid status, including moving out of closed.
var forwardTransitions = map[IssueStatus][]IssueStatus{
	StatusOpen:       {StatusInProgress, StatusResolved, StatusClosed},
	StatusInProgress: {StatusResolved, StatusClosed},
	StatusResolved:   {StatusClosed},
	StatusClosed:     {},
}

func (s IssueStatus) String() string {
	return string(s)
}

func (s IssueStatus) IsValid() bool {
	_, ok := forwardTransitions[s]
	return ok
}

// IsDone is true for resolved and closed, which reporting treats alike.
func (s IssueStatus) IsDone() bool {
	return s == StatusResolved || s == StatusClosed
}

// ForwardTransitions returns a copy of the forward moves from s.
func (s IssueStatus) ForwardTransitions() []IssueStatus {
	next := forwardTransitions[s]
	out := make([]IssueStatus, len(next))
	copy(out, next)
	return out
}

func (s IssueStatus) IsForwardTransition(to IssueStatus) bool {
	for _, n := range forwardTransitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

func NewIssueStatus(s string) (IssueStatus, error) {
	st := IssueStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid issue status: %s", s)
	}
	return st, nil
}
