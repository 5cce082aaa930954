package usecases

import (
	"context"
	"strings"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// UpdateProfileCommand replaces the editable details of the caller's own
// profile. Nil leaves a field unchanged; an empty string clears it.
type UpdateProfileCommand struct {
	UserID       string
	FullName     *string
	DepartmentID *string
	ManagerID    *string
	EmployeeID   *string
	JobTitle     *string
	Phone        *string
}

type UpdateProfileUseCase struct {
	profileRepo profile.Repository
	refRepo     reference.Repository
	logger      logger.Interface
}

func NewUpdateProfileUseCase(profileRepo profile.Repository, refRepo reference.Repository, logger logger.Interface) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{profileRepo: profileRepo, refRepo: refRepo, logger: logger}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, cmd UpdateProfileCommand) (*dto.ProfileDTO, error) {
	uc.logger.Infow("executing update profile use case", "user_id", cmd.UserID)

	if cmd.UserID == "" {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	p, err := uc.profileRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get profile", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewInternalError("failed to update profile")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}

	details := profile.Details{
		FullName:     p.FullName(),
		DepartmentID: merge(p.DepartmentID(), cmd.DepartmentID),
		ManagerID:    merge(p.ManagerID(), cmd.ManagerID),
		EmployeeID:   merge(p.EmployeeID(), cmd.EmployeeID),
		JobTitle:     merge(p.JobTitle(), cmd.JobTitle),
		Phone:        merge(p.Phone(), cmd.Phone),
	}
	if cmd.FullName != nil {
		details.FullName = strings.TrimSpace(*cmd.FullName)
	}

	if details.DepartmentID != nil && cmd.DepartmentID != nil {
		dep, err := uc.refRepo.GetDepartment(ctx, *details.DepartmentID)
		if err != nil {
			uc.logger.Errorw("failed to look up department", "error", err)
			return nil, errors.NewInternalError("failed to update profile")
		}
		if dep == nil {
			return nil, errors.NewValidationError("unknown department", "department_id")
		}
	}
	if details.ManagerID != nil && cmd.ManagerID != nil && *details.ManagerID != p.ID() {
		manager, err := uc.profileRepo.GetByID(ctx, *details.ManagerID)
		if err != nil {
			uc.logger.Errorw("failed to look up manager", "error", err)
			return nil, errors.NewInternalError("failed to update profile")
		}
		if manager == nil {
			return nil, errors.NewValidationError("unknown manager", "manager_id")
		}
	}

	if err := p.UpdateDetails(details); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to save profile", "user_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update profile")
	}

	uc.logger.Infow("profile updated", "user_id", p.ID())
	return dto.ToProfileDTO(p), nil
}

func merge(current, patch *string) *string {
	if patch == nil {
		return current
	}
	v := strings.TrimSpace(*patch)
	if v == "" {
		return nil
	}
	return &v
}
