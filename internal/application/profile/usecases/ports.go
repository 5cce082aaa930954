package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/infrastructure/cache"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

type JWTService interface {
	Generate(userID string, role authorization.Role) (*auth.TokenPair, error)
	VerifyRefresh(tokenString string) (*auth.Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// StateStore keeps the OAuth state and PKCE verifier between the redirect
// and the callback. VerifyAndGet consumes the entry.
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

type OAuthClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (string, error)
	GetUserInfo(ctx context.Context, accessToken string) (*auth.OAuthUserInfo, error)
}

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuthResult is returned by every sign-in path.
type AuthResult struct {
	Profile   *dto.ProfileDTO
	Tokens    *auth.TokenPair
	IsNewUser bool
}
