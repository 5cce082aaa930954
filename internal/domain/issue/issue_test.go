package issue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
)

func strPtr(s string) *string { return &s }

func validParams() NewIssueParams {
	return NewIssueParams{
		Title:          "Broken light in lobby",
		Description:    "The lobby light has flickered for two weeks and now stays off.",
		CategoryID:     "cat-maintenance",
		Severity:       vo.SeverityLow,
		AnonymousToken: "tok_abc",
	}
}

func newTestIssue(t *testing.T) *Issue {
	t.Helper()
	i, err := NewIssue(validParams())
	require.NoError(t, err)
	return i
}

func TestNewIssue_Defaults(t *testing.T) {
	i := newTestIssue(t)

	assert.NotEmpty(t, i.ID())
	assert.Equal(t, vo.StatusOpen, i.Status())
	assert.True(t, i.IsAnonymous())
	assert.Nil(t, i.ReporterID())
	assert.Nil(t, i.ResolvedAt())
	assert.Equal(t, "tok_abc", i.AnonymousToken())
	assert.Empty(t, i.Attachments())

	evts := i.GetEvents()
	require.Len(t, evts, 1)
	submitted, ok := evts[0].(IssueSubmittedEvent)
	require.True(t, ok)
	assert.True(t, submitted.Anonymous)
	assert.Empty(t, i.GetEvents(), "events are drained")
}

func TestNewIssue_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *NewIssueParams)
		wantErr string
	}{
		{"missing title", func(p *NewIssueParams) { p.Title = "" }, "title is required"},
		{"long title", func(p *NewIssueParams) { p.Title = strings.Repeat("x", MaxTitleLength+1) }, "title exceeds"},
		{"missing description", func(p *NewIssueParams) { p.Description = "" }, "description is required"},
		{"missing category", func(p *NewIssueParams) { p.CategoryID = "" }, "category_id is required"},
		{"bad severity", func(p *NewIssueParams) { p.Severity = "urgent" }, "invalid severity"},
		{"missing token", func(p *NewIssueParams) { p.AnonymousToken = "" }, "anonymous token is required"},
		{"too many attachments", func(p *NewIssueParams) { p.Attachments = make([]string, MaxAttachments+1) }, "attachments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := NewIssue(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewIssue_NamedReporter(t *testing.T) {
	p := validParams()
	p.ReporterID = strPtr("profile-1")
	i, err := NewIssue(p)
	require.NoError(t, err)

	assert.False(t, i.IsAnonymous())
	assert.Equal(t, "profile-1", *i.ReporterID())
}

func TestChangeStatus_ResolvedAtTracksDoneStates(t *testing.T) {
	i := newTestIssue(t)
	i.GetEvents()

	old, changed, err := i.ChangeStatus(vo.StatusResolved, strPtr("hr-1"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, vo.StatusOpen, old)
	require.NotNil(t, i.ResolvedAt())
	resolvedAt := *i.ResolvedAt()

	_, changed, err = i.ChangeStatus(vo.StatusClosed, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, i.ResolvedAt())
	assert.Equal(t, resolvedAt, *i.ResolvedAt(), "closing keeps the original resolution time")

	_, changed, err = i.ChangeStatus(vo.StatusInProgress, nil)
	require.NoError(t, err)
	assert.True(t, changed, "leaving closed is allowed by the store")
	assert.Nil(t, i.ResolvedAt())

	evts := i.GetEvents()
	require.Len(t, evts, 3)
	first := evts[0].(IssueStatusChangedEvent)
	assert.Equal(t, vo.StatusOpen, first.OldStatus)
	assert.Equal(t, vo.StatusResolved, first.NewStatus)
	assert.Nil(t, first.ReporterID)
}

func TestChangeStatus_NoopAndInvalid(t *testing.T) {
	i := newTestIssue(t)
	i.GetEvents()

	_, changed, err := i.ChangeStatus(vo.StatusOpen, nil)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, i.GetEvents())

	_, _, err = i.ChangeStatus("reopened", nil)
	assert.Error(t, err)
	assert.Equal(t, vo.StatusOpen, i.Status())
}

func TestAssignTo(t *testing.T) {
	i := newTestIssue(t)
	i.GetEvents()

	assert.True(t, i.AssignTo(strPtr("mgr-1"), strPtr("hr-1")))
	assert.False(t, i.AssignTo(strPtr("mgr-1"), strPtr("hr-1")))
	assert.Equal(t, "mgr-1", *i.AssignedTo())

	assert.True(t, i.AssignTo(nil, strPtr("hr-1")))
	assert.Nil(t, i.AssignedTo())
	assert.Len(t, i.GetEvents(), 2)
}

func TestMergeMetadata(t *testing.T) {
	p := validParams()
	p.Metadata = map[string]interface{}{"floor": "1", "building": "A"}
	i, err := NewIssue(p)
	require.NoError(t, err)

	i.MergeMetadata(map[string]interface{}{"floor": "2", "building": nil, "shift": "night"})

	assert.Equal(t, map[string]interface{}{"floor": "2", "shift": "night"}, i.Metadata())
}

func TestReconstructIssue_RejectsCorruptRows(t *testing.T) {
	_, err := ReconstructIssue(ReconstructIssueParams{ID: "x", AnonymousToken: "t", Severity: vo.SeverityLow, Status: "pending"})
	assert.Error(t, err)

	_, err = ReconstructIssue(ReconstructIssueParams{ID: "x", Severity: vo.SeverityLow, Status: vo.StatusOpen})
	assert.Error(t, err)
}
