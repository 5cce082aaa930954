package mappers

import (
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

type ProfileMapper interface {
	ToModel(p *profile.Profile) *models.ProfileModel
	ToDomain(m *models.ProfileModel) (*profile.Profile, error)
	AccountToModel(a *profile.Account) *models.AccountModel
	AccountToDomain(m *models.AccountModel) *profile.Account
}

type ProfileMapperImpl struct{}

func NewProfileMapper() ProfileMapper {
	return &ProfileMapperImpl{}
}

func (m *ProfileMapperImpl) ToModel(p *profile.Profile) *models.ProfileModel {
	return &models.ProfileModel{
		ID:           p.ID(),
		Email:        p.Email(),
		FullName:     p.FullName(),
		Role:         p.Role().String(),
		DepartmentID: p.DepartmentID(),
		ManagerID:    p.ManagerID(),
		EmployeeID:   p.EmployeeID(),
		JobTitle:     p.JobTitle(),
		Phone:        p.Phone(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func (m *ProfileMapperImpl) ToDomain(model *models.ProfileModel) (*profile.Profile, error) {
	return profile.ReconstructProfile(profile.ReconstructParams{
		ID:           model.ID,
		Email:        model.Email,
		FullName:     model.FullName,
		Role:         authorization.Role(model.Role),
		DepartmentID: model.DepartmentID,
		ManagerID:    model.ManagerID,
		EmployeeID:   model.EmployeeID,
		JobTitle:     model.JobTitle,
		Phone:        model.Phone,
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    model.UpdatedAt.UTC(),
	})
}

func (m *ProfileMapperImpl) AccountToModel(a *profile.Account) *models.AccountModel {
	return &models.AccountModel{
		ID:            a.ID(),
		Email:         a.Email(),
		PasswordHash:  a.PasswordHash(),
		GoogleSubject: a.GoogleSubject(),
		LastSignInAt:  a.LastSignInAt(),
		CreatedAt:     a.CreatedAt(),
	}
}

func (m *ProfileMapperImpl) AccountToDomain(model *models.AccountModel) *profile.Account {
	return profile.ReconstructAccount(
		model.ID,
		model.Email,
		model.PasswordHash,
		model.GoogleSubject,
		utcPtr(model.LastSignInAt),
		model.CreatedAt.UTC(),
	)
}
