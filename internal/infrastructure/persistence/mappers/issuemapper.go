package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
)

// IssueMapper converts between the issue aggregate family and its rows.
type IssueMapper interface {
	ToModel(i *issue.Issue) (*models.IssueModel, error)
	ToDomain(m *models.IssueModel) (*issue.Issue, error)
	UpdateToModel(u *issue.IssueUpdate) *models.IssueUpdateModel
	UpdateToDomain(m *models.IssueUpdateModel) (*issue.IssueUpdate, error)
	TokenToModel(t *issue.AnonymousToken) *models.AnonymousTokenModel
	TokenToDomain(m *models.AnonymousTokenModel) *issue.AnonymousToken
}

type IssueMapperImpl struct{}

func NewIssueMapper() IssueMapper {
	return &IssueMapperImpl{}
}

func (m *IssueMapperImpl) ToModel(i *issue.Issue) (*models.IssueModel, error) {
	attachments, err := json.Marshal(i.Attachments())
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}
	metadata, err := json.Marshal(i.Metadata())
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	return &models.IssueModel{
		ID:             i.ID(),
		Title:          i.Title(),
		Description:    i.Description(),
		CategoryID:     i.CategoryID(),
		DepartmentID:   i.DepartmentID(),
		Severity:       i.Severity().String(),
		Status:         i.Status().String(),
		AnonymousToken: i.AnonymousToken(),
		ReporterID:     i.ReporterID(),
		AssignedTo:     i.AssignedTo(),
		Location:       i.Location(),
		Attachments:    datatypes.JSON(attachments),
		Metadata:       datatypes.JSON(metadata),
		CreatedAt:      i.CreatedAt(),
		UpdatedAt:      i.UpdatedAt(),
		ResolvedAt:     i.ResolvedAt(),
	}, nil
}

func (m *IssueMapperImpl) ToDomain(model *models.IssueModel) (*issue.Issue, error) {
	var attachments []string
	if len(model.Attachments) > 0 {
		if err := json.Unmarshal(model.Attachments, &attachments); err != nil {
			return nil, fmt.Errorf("issue %s: decode attachments: %w", model.ID, err)
		}
	}
	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("issue %s: decode metadata: %w", model.ID, err)
		}
	}

	return issue.ReconstructIssue(issue.ReconstructIssueParams{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		CategoryID:     model.CategoryID,
		DepartmentID:   model.DepartmentID,
		Severity:       vo.Severity(model.Severity),
		Status:         vo.IssueStatus(model.Status),
		AnonymousToken: model.AnonymousToken,
		ReporterID:     model.ReporterID,
		AssignedTo:     model.AssignedTo,
		Location:       model.Location,
		Attachments:    attachments,
		Metadata:       metadata,
		CreatedAt:      model.CreatedAt.UTC(),
		UpdatedAt:      model.UpdatedAt.UTC(),
		ResolvedAt:     utcPtr(model.ResolvedAt),
	})
}

func (m *IssueMapperImpl) UpdateToModel(u *issue.IssueUpdate) *models.IssueUpdateModel {
	return &models.IssueUpdateModel{
		ID:         u.ID(),
		IssueID:    u.IssueID(),
		UpdateType: u.Type().String(),
		Content:    u.Content(),
		OldStatus:  statusString(u.OldStatus()),
		NewStatus:  statusString(u.NewStatus()),
		AuthorID:   u.AuthorID(),
		IsPublic:   u.IsPublic(),
		CreatedAt:  u.CreatedAt(),
	}
}

func (m *IssueMapperImpl) UpdateToDomain(model *models.IssueUpdateModel) (*issue.IssueUpdate, error) {
	return issue.ReconstructIssueUpdate(
		model.ID,
		model.IssueID,
		vo.UpdateType(model.UpdateType),
		model.Content,
		statusValue(model.OldStatus),
		statusValue(model.NewStatus),
		model.AuthorID,
		model.IsPublic,
		model.CreatedAt.UTC(),
	)
}

func (m *IssueMapperImpl) TokenToModel(t *issue.AnonymousToken) *models.AnonymousTokenModel {
	return &models.AnonymousTokenModel{
		Token:     t.Token(),
		IssueID:   t.IssueID(),
		ExpiresAt: t.ExpiresAt(),
		CreatedAt: t.CreatedAt(),
	}
}

func (m *IssueMapperImpl) TokenToDomain(model *models.AnonymousTokenModel) *issue.AnonymousToken {
	return issue.ReconstructAnonymousToken(model.Token, model.IssueID, model.ExpiresAt.UTC(), model.CreatedAt.UTC())
}

func statusString(s *vo.IssueStatus) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}

func statusValue(s *string) *vo.IssueStatus {
	if s == nil {
		return nil
	}
	v := vo.IssueStatus(*s)
	return &v
}
