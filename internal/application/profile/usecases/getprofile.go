package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type GetProfileQuery struct {
	UserID string
}

type GetProfileUseCase struct {
	profileRepo profile.Repository
	logger      logger.Interface
}

func NewGetProfileUseCase(profileRepo profile.Repository, logger logger.Interface) *GetProfileUseCase {
	return &GetProfileUseCase{profileRepo: profileRepo, logger: logger}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, query GetProfileQuery) (*dto.ProfileDTO, error) {
	if query.UserID == "" {
		return nil, errors.NewUnauthorizedError("authentication required")
	}

	p, err := uc.profileRepo.GetByID(ctx, query.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get profile", "user_id", query.UserID, "error", err)
		return nil, errors.NewInternalError("failed to get profile")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("profile not found")
	}
	return dto.ToProfileDTO(p), nil
}
