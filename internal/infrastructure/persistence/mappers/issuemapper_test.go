package mappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
)

func TestIssueMapper_PreservesAttachmentsAndMetadata(t *testing.T) {
	dept := "dept-1"
	i, err := issue.NewIssue(issue.NewIssueParams{
		Title:          "Blocked fire exit",
		Description:    "Boxes stacked in front of the east exit.",
		CategoryID:     "cat-safety",
		DepartmentID:   &dept,
		Severity:       vo.SeverityCritical,
		AnonymousToken: "tok",
		Attachments:    []string{"attachments/2026/10/a.jpg"},
		Metadata:       map[string]interface{}{"floor": "3"},
	})
	require.NoError(t, err)

	m := NewIssueMapper()
	model, err := m.ToModel(i)
	require.NoError(t, err)
	assert.JSONEq(t, `["attachments/2026/10/a.jpg"]`, string(model.Attachments))

	back, err := m.ToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, i.Attachments(), back.Attachments())
	assert.Equal(t, i.Metadata(), back.Metadata())
	assert.Equal(t, "dept-1", *back.DepartmentID())
	assert.Nil(t, back.ReporterID())
}

func TestIssueMapper_RejectsBadStatus(t *testing.T) {
	_, err := NewIssueMapper().ToDomain(&models.IssueModel{
		ID: "x", AnonymousToken: "t", Severity: "low", Status: "archived",
	})
	assert.Error(t, err)
}

func TestIssueMapper_StatusChangeUpdate(t *testing.T) {
	u, err := issue.NewStatusChangeUpdate("issue-1", vo.StatusOpen, vo.StatusResolved, "", nil, true)
	require.NoError(t, err)

	m := NewIssueMapper()
	model := m.UpdateToModel(u)
	require.NotNil(t, model.OldStatus)
	assert.Equal(t, "open", *model.OldStatus)

	back, err := m.UpdateToDomain(model)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusResolved, *back.NewStatus())
	assert.Nil(t, back.AuthorID())
}
