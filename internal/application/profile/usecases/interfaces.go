package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/profile/dto"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

type SignUpExecutor interface {
	Execute(ctx context.Context, cmd SignUpCommand) (*AuthResult, error)
}

type SignInExecutor interface {
	Execute(ctx context.Context, cmd SignInCommand) (*AuthResult, error)
}

type RefreshTokenExecutor interface {
	Execute(ctx context.Context, cmd RefreshTokenCommand) (*AuthResult, error)
}

type GoogleOAuthExecutor interface {
	Enabled() bool
	Initiate(ctx context.Context) (*InitiateGoogleOAuthResult, error)
	HandleCallback(ctx context.Context, cmd GoogleOAuthCallbackCommand) (*AuthResult, error)
}

type GetProfileExecutor interface {
	Execute(ctx context.Context, query GetProfileQuery) (*dto.ProfileDTO, error)
}

type UpdateProfileExecutor interface {
	Execute(ctx context.Context, cmd UpdateProfileCommand) (*dto.ProfileDTO, error)
}

type ChangeRoleExecutor interface {
	Execute(ctx context.Context, cmd ChangeRoleCommand) (*dto.ProfileDTO, error)
}

type GetCapabilitiesExecutor interface {
	Execute(ctx context.Context, p authorization.Principal) (authorization.Capabilities, error)
}
