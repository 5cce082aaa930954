package usecases

import (
	"context"
	"strings"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type InitiateGoogleOAuthResult struct {
	AuthURL string
	State   string
}

type GoogleOAuthCallbackCommand struct {
	Code  string
	State string
}

// GoogleOAuthUseCase runs the authorization code flow with PKCE. The state
// and verifier live in the state store between the two legs.
type GoogleOAuthUseCase struct {
	client      OAuthClient
	stateStore  StateStore
	accountRepo profile.AccountRepository
	profileRepo profile.Repository
	jwtService  JWTService
	txManager   TransactionRunner
	logger      logger.Interface
}

func NewGoogleOAuthUseCase(
	client OAuthClient,
	stateStore StateStore,
	accountRepo profile.AccountRepository,
	profileRepo profile.Repository,
	jwtService JWTService,
	txManager TransactionRunner,
	logger logger.Interface,
) *GoogleOAuthUseCase {
	return &GoogleOAuthUseCase{
		client:      client,
		stateStore:  stateStore,
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		txManager:   txManager,
		logger:      logger,
	}
}

func (uc *GoogleOAuthUseCase) Enabled() bool {
	return uc.client != nil
}

func (uc *GoogleOAuthUseCase) Initiate(ctx context.Context) (*InitiateGoogleOAuthResult, error) {
	if !uc.Enabled() {
		return nil, errors.NewBadRequestError("google sign-in is not configured")
	}

	state, err := auth.GenerateState()
	if err != nil {
		uc.logger.Errorw("failed to generate state", "error", err)
		return nil, errors.NewInternalError("failed to start google sign-in")
	}

	authURL, verifier, err := uc.client.GetAuthURL(state)
	if err != nil {
		uc.logger.Errorw("failed to get auth URL", "error", err)
		return nil, errors.NewInternalError("failed to start google sign-in")
	}

	if err := uc.stateStore.Set(ctx, state, verifier); err != nil {
		uc.logger.Errorw("failed to store OAuth state", "error", err)
		return nil, errors.NewInternalError("failed to start google sign-in")
	}

	uc.logger.Infow("google sign-in initiated")
	return &InitiateGoogleOAuthResult{AuthURL: authURL, State: state}, nil
}

func (uc *GoogleOAuthUseCase) HandleCallback(ctx context.Context, cmd GoogleOAuthCallbackCommand) (*AuthResult, error) {
	if !uc.Enabled() {
		return nil, errors.NewBadRequestError("google sign-in is not configured")
	}
	if cmd.Code == "" || cmd.State == "" {
		return nil, errors.NewValidationError("missing code or state")
	}

	stateInfo, err := uc.stateStore.VerifyAndGet(ctx, cmd.State)
	if err != nil {
		uc.logger.Warnw("invalid or expired OAuth state", "error", err)
		return nil, errors.NewUnauthorizedError("invalid or expired state parameter")
	}

	accessToken, err := uc.client.ExchangeCode(ctx, cmd.Code, stateInfo.CodeVerifier)
	if err != nil {
		uc.logger.Warnw("failed to exchange code", "error", err)
		return nil, errors.NewUnauthorizedError("google sign-in failed")
	}

	info, err := uc.client.GetUserInfo(ctx, accessToken)
	if err != nil {
		uc.logger.Errorw("failed to get user info", "error", err)
		return nil, errors.NewInternalError("google sign-in failed")
	}
	if !info.EmailVerified || info.Email == "" {
		return nil, errors.NewUnauthorizedError("google account email is not verified")
	}

	p, isNew, err := uc.resolveProfile(ctx, info)
	if err != nil {
		return nil, err
	}

	tokens, err := uc.jwtService.Generate(p.ID(), p.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue tokens", "user_id", p.ID(), "error", err)
		return nil, errors.NewInternalError("google sign-in failed")
	}

	uc.logger.Infow("google sign-in completed", "user_id", p.ID(), "new_user", isNew)
	return &AuthResult{Profile: dto.ToProfileDTO(p), Tokens: tokens, IsNewUser: isNew}, nil
}

// resolveProfile finds the account by Google subject, then by email (linking
// it), and otherwise creates a new account and profile.
func (uc *GoogleOAuthUseCase) resolveProfile(ctx context.Context, info *auth.OAuthUserInfo) (*profile.Profile, bool, error) {
	account, err := uc.accountRepo.GetByGoogleSubject(ctx, info.ProviderID)
	if err != nil {
		uc.logger.Errorw("failed to look up account by subject", "error", err)
		return nil, false, errors.NewInternalError("google sign-in failed")
	}

	if account == nil {
		account, err = uc.accountRepo.GetByEmail(ctx, info.Email)
		if err != nil {
			uc.logger.Errorw("failed to look up account by email", "error", err)
			return nil, false, errors.NewInternalError("google sign-in failed")
		}
		if account != nil {
			account.LinkGoogle(info.ProviderID)
		}
	}

	if account != nil {
		account.RecordSignIn()
		if err := uc.accountRepo.Update(ctx, account); err != nil {
			uc.logger.Warnw("failed to update account", "user_id", account.ID(), "error", err)
		}
		p, err := uc.profileRepo.GetByID(ctx, account.ID())
		if err != nil {
			uc.logger.Errorw("failed to get profile", "user_id", account.ID(), "error", err)
			return nil, false, errors.NewInternalError("google sign-in failed")
		}
		if p == nil {
			return nil, false, errors.NewUnauthorizedError("account has no profile")
		}
		return p, false, nil
	}

	account, err = profile.NewGoogleAccount(info.Email, info.ProviderID)
	if err != nil {
		return nil, false, errors.NewValidationError(err.Error())
	}
	account.RecordSignIn()

	name := strings.TrimSpace(info.Name)
	if name == "" {
		name, _, _ = strings.Cut(account.Email(), "@")
	}
	p, err := profile.NewProfileFromSignUp(account.ID(), account.Email(), profile.SignUpMetadata{FullName: name})
	if err != nil {
		return nil, false, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return err
		}
		return uc.profileRepo.Create(ctx, p)
	})
	if err != nil {
		uc.logger.Errorw("failed to create account", "error", err)
		return nil, false, errors.NewInternalError("google sign-in failed")
	}
	return p, true, nil
}
