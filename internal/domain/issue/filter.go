package issue

import (
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
)

// Filter narrows the dashboard list. Nil fields match everything. The same
// criteria are applied in SQL by the repository and in memory by Apply.
type Filter struct {
	Status       *vo.IssueStatus
	Severity     *vo.Severity
	CategoryID   *string
	DepartmentID *string
	AssignedTo   *string
}

func (f Filter) IsEmpty() bool {
	return f.Status == nil && f.Severity == nil && f.CategoryID == nil &&
		f.DepartmentID == nil && f.AssignedTo == nil
}

func (f Filter) Matches(i *Issue) bool {
	if f.Status != nil && i.status != *f.Status {
		return false
	}
	if f.Severity != nil && i.severity != *f.Severity {
		return false
	}
	if f.CategoryID != nil && i.categoryID != *f.CategoryID {
		return false
	}
	if f.DepartmentID != nil && !equalPtr(i.departmentID, f.DepartmentID) {
		return false
	}
	if f.AssignedTo != nil && !equalPtr(i.assignedTo, f.AssignedTo) {
		return false
	}
	return true
}

// Apply keeps the order of issues.
func (f Filter) Apply(issues []*Issue) []*Issue {
	if f.IsEmpty() {
		return issues
	}
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		if f.Matches(i) {
			out = append(out, i)
		}
	}
	return out
}

// CountByStatus always has an entry for each of the four statuses.
func CountByStatus(issues []*Issue) map[vo.IssueStatus]int {
	counts := make(map[vo.IssueStatus]int, len(vo.AllStatuses))
	for _, s := range vo.AllStatuses {
		counts[s] = 0
	}
	for _, i := range issues {
		counts[i.status]++
	}
	return counts
}
