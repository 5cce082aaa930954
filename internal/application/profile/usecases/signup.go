package usecases

import (
	"context"
	stderrors "errors"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type SignUpCommand struct {
	Email        string
	Password     string
	FullName     string
	DepartmentID *string
	EmployeeID   *string
	JobTitle     *string
	Phone        *string
}

// SignUpUseCase creates the account and its profile together. The role is
// always employee; promotion goes through ChangeRole.
type SignUpUseCase struct {
	accountRepo profile.AccountRepository
	profileRepo profile.Repository
	hasher      PasswordHasher
	jwtService  JWTService
	txManager   TransactionRunner
	logger      logger.Interface
}

func NewSignUpUseCase(
	accountRepo profile.AccountRepository,
	profileRepo profile.Repository,
	hasher PasswordHasher,
	jwtService JWTService,
	txManager TransactionRunner,
	logger logger.Interface,
) *SignUpUseCase {
	return &SignUpUseCase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		hasher:      hasher,
		jwtService:  jwtService,
		txManager:   txManager,
		logger:      logger,
	}
}

func (uc *SignUpUseCase) Execute(ctx context.Context, cmd SignUpCommand) (*AuthResult, error) {
	email := profile.NormalizeEmail(cmd.Email)
	uc.logger.Infow("executing sign up use case")

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if cmd.Password == "" {
		missing = append(missing, "password")
	}
	if cmd.FullName == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError("missing required fields", missing...)
	}

	existing, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to look up account", "error", err)
		return nil, errors.NewInternalError("failed to sign up")
	}
	if existing != nil {
		return nil, errors.NewConflictError("an account with this email already exists")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		if stderrors.Is(err, auth.ErrPasswordTooShort) || stderrors.Is(err, auth.ErrPasswordTooLong) {
			return nil, errors.NewValidationError(err.Error(), "password")
		}
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to sign up")
	}

	account, err := profile.NewPasswordAccount(email, hash)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	p, err := profile.NewProfileFromSignUp(account.ID(), email, profile.SignUpMetadata{
		FullName:     cmd.FullName,
		DepartmentID: cmd.DepartmentID,
		EmployeeID:   cmd.EmployeeID,
		JobTitle:     cmd.JobTitle,
		Phone:        cmd.Phone,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return err
		}
		return uc.profileRepo.Create(ctx, p)
	})
	if err != nil {
		if errors.IsConflictError(err) || errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("an account with this email already exists")
		}
		uc.logger.Errorw("failed to create account", "error", err)
		return nil, errors.NewInternalError("failed to sign up")
	}

	tokens, err := uc.jwtService.Generate(p.ID(), p.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("failed to sign up")
	}

	uc.logger.Infow("account created successfully", "user_id", p.ID())
	return &AuthResult{Profile: dto.ToProfileDTO(p), Tokens: tokens, IsNewUser: true}, nil
}
