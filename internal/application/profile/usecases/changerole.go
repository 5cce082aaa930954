package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type ChangeRoleCommand struct {
	TargetID     string
	Role         string
	ActorID      string
	Capabilities authorization.Capabilities
}

type ChangeRoleUseCase struct {
	profileRepo profile.Repository
	logger      logger.Interface
}

func NewChangeRoleUseCase(profileRepo profile.Repository, logger logger.Interface) *ChangeRoleUseCase {
	return &ChangeRoleUseCase{profileRepo: profileRepo, logger: logger}
}

func (uc *ChangeRoleUseCase) Execute(ctx context.Context, cmd ChangeRoleCommand) (*dto.ProfileDTO, error) {
	uc.logger.Infow("executing change role use case", "target_id", cmd.TargetID, "role", cmd.Role)

	if !cmd.Capabilities.CanManageRoles {
		return nil, errors.NewForbiddenError("not allowed to manage roles")
	}

	role := authorization.Role(cmd.Role)
	if !role.IsValid() {
		return nil, errors.NewValidationError("invalid role", "role")
	}
	if cmd.TargetID == cmd.ActorID {
		return nil, errors.NewValidationError("cannot change your own role")
	}

	p, err := uc.profileRepo.GetByID(ctx, cmd.TargetID)
	if err != nil {
		uc.logger.Errorw("failed to get profile", "target_id", cmd.TargetID, "error", err)
		return nil, errors.NewInternalError("failed to change role")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}
	if p.Role() == role {
		return dto.ToProfileDTO(p), nil
	}

	previous := p.Role()
	if err := p.ChangeRole(role); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to save profile", "target_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("failed to change role")
	}

	uc.logger.Infow("role changed", "target_id", p.ID(), "from", previous, "to", role, "actor_id", cmd.ActorID)
	return dto.ToProfileDTO(p), nil
}
