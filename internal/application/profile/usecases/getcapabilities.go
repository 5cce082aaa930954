package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type GetCapabilitiesUseCase struct {
	authorizer authorization.Authorizer
	logger     logger.Interface
}

func NewGetCapabilitiesUseCase(authorizer authorization.Authorizer, logger logger.Interface) *GetCapabilitiesUseCase {
	return &GetCapabilitiesUseCase{authorizer: authorizer, logger: logger}
}

func (uc *GetCapabilitiesUseCase) Execute(_ context.Context, p authorization.Principal) (authorization.Capabilities, error) {
	caps, err := uc.authorizer.CapabilitiesFor(p)
	if err != nil {
		uc.logger.Errorw("failed to resolve capabilities", "role", p.Role, "error", err)
		return authorization.None(), errors.NewInternalError("failed to resolve capabilities")
	}
	return caps, nil
}
