package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
}

type RefreshTokenUseCase struct {
	profileRepo profile.Repository
	jwtService  JWTService
	logger      logger.Interface
}

func NewRefreshTokenUseCase(profileRepo profile.Repository, jwtService JWTService, logger logger.Interface) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Execute re-reads the profile so a role change takes effect at the next
// refresh rather than when the old refresh token expires.
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*AuthResult, error) {
	claims, err := uc.jwtService.VerifyRefresh(cmd.RefreshToken)
	if err != nil {
		uc.logger.Warnw("refresh token rejected", "error", err)
		return nil, errors.NewUnauthorizedError("invalid or expired refresh token")
	}

	p, err := uc.profileRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get profile", "user_id", claims.UserID, "error", err)
		return nil, errors.NewInternalError("failed to refresh token")
	}
	if p == nil {
		return nil, errors.NewUnauthorizedError("invalid or expired refresh token")
	}

	tokens, err := uc.jwtService.Generate(p.ID(), p.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("failed to refresh token")
	}
	return &AuthResult{Profile: dto.ToProfileDTO(p), Tokens: tokens}, nil
}
