package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

const invalidCredentialsMessage = "invalid email or password"

type SignInCommand struct {
	Email    string
	Password string
}

type SignInUseCase struct {
	accountRepo profile.AccountRepository
	profileRepo profile.Repository
	hasher      PasswordHasher
	jwtService  JWTService
	logger      logger.Interface
}

func NewSignInUseCase(
	accountRepo profile.AccountRepository,
	profileRepo profile.Repository,
	hasher PasswordHasher,
	jwtService JWTService,
	logger logger.Interface,
) *SignInUseCase {
	return &SignInUseCase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Execute answers every credential failure with the same message.
func (uc *SignInUseCase) Execute(ctx context.Context, cmd SignInCommand) (*AuthResult, error) {
	uc.logger.Infow("executing sign in use case")

	email := profile.NormalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to look up account", "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}
	if account == nil || !account.HasPassword() {
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}
	if err := uc.hasher.Verify(cmd.Password, account.PasswordHash()); err != nil {
		uc.logger.Warnw("password sign in rejected", "user_id", account.ID())
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	p, err := uc.profileRepo.GetByID(ctx, account.ID())
	if err != nil {
		uc.logger.Errorw("failed to get profile", "user_id", account.ID(), "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}
	if p == nil {
		uc.logger.Errorw("account has no profile", "user_id", account.ID())
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	account.RecordSignIn()
	if err := uc.accountRepo.Update(ctx, account); err != nil {
		uc.logger.Warnw("failed to record sign in", "user_id", account.ID(), "error", err)
	}

	tokens, err := uc.jwtService.Generate(p.ID(), p.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("failed to sign in")
	}

	uc.logger.Infow("user signed in", "user_id", p.ID(), "role", p.Role())
	return &AuthResult{Profile: dto.ToProfileDTO(p), Tokens: tokens}, nil
}
