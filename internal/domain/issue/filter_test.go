package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
)

func issueWithStatus(t *testing.T, s vo.IssueStatus) *Issue {
	t.Helper()
	i := newTestIssue(t)
	_, _, err := i.ChangeStatus(s, nil)
	require.NoError(t, err)
	return i
}

func sampleIssues(t *testing.T) []*Issue {
	return []*Issue{
		issueWithStatus(t, vo.StatusOpen),
		issueWithStatus(t, vo.StatusOpen),
		issueWithStatus(t, vo.StatusInProgress),
		issueWithStatus(t, vo.StatusResolved),
		issueWithStatus(t, vo.StatusClosed),
		issueWithStatus(t, vo.StatusClosed),
		issueWithStatus(t, vo.StatusClosed),
	}
}

func TestFilter_StatusCountsSumToTotal(t *testing.T) {
	issues := sampleIssues(t)
	counts := CountByStatus(issues)

	for _, s := range vo.AllStatuses {
		status := s
		filtered := Filter{Status: &status}.Apply(issues)
		for _, i := range filtered {
			assert.Equal(t, s, i.Status())
		}
		assert.Equal(t, counts[s], len(filtered))

		others := 0
		for _, o := range vo.AllStatuses {
			if o != s {
				others += counts[o]
			}
		}
		assert.Equal(t, len(issues), len(filtered)+others)
	}
}

func TestFilter_OpenToResolvedMovesBetweenViews(t *testing.T) {
	issues := sampleIssues(t)
	open := vo.StatusOpen
	resolved := vo.StatusResolved
	target := issues[0]

	require.Contains(t, Filter{Status: &open}.Apply(issues), target)

	_, _, err := target.ChangeStatus(vo.StatusResolved, nil)
	require.NoError(t, err)

	assert.NotContains(t, Filter{Status: &open}.Apply(issues), target)
	assert.Contains(t, Filter{Status: &resolved}.Apply(issues), target)
	assert.NotNil(t, target.ResolvedAt())
}

func TestFilter_CombinedCriteria(t *testing.T) {
	p := validParams()
	p.DepartmentID = strPtr("dept-ops")
	p.Severity = vo.SeverityHigh
	match, err := NewIssue(p)
	require.NoError(t, err)
	other := newTestIssue(t)

	high := vo.SeverityHigh
	f := Filter{Severity: &high, DepartmentID: strPtr("dept-ops")}

	assert.Equal(t, []*Issue{match}, f.Apply([]*Issue{match, other}))
	assert.True(t, Filter{}.IsEmpty())
	assert.Len(t, Filter{}.Apply([]*Issue{match, other}), 2)
}

func TestCountByStatus_AllKeysPresent(t *testing.T) {
	counts := CountByStatus(nil)
	assert.Len(t, counts, 4)
	for _, s := range vo.AllStatuses {
		assert.Equal(t, 0, counts[s])
	}
}
