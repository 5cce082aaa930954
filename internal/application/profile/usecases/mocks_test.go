package usecases

import (
	"context"
	"errors"

	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/shared/authorization"
)

type fakeOAuthClient struct {
	info        *auth.OAuthUserInfo
	exchangeErr error
	exchanged   []string
}

func (c *fakeOAuthClient) GetAuthURL(state string) (string, string, error) {
	return "https://accounts.example.com/auth?state=" + state, "verifier-" + state, nil
}

func (c *fakeOAuthClient) ExchangeCode(_ context.Context, code string, codeVerifier string) (string, error) {
	if c.exchangeErr != nil {
		return "", c.exchangeErr
	}
	c.exchanged = append(c.exchanged, code+"|"+codeVerifier)
	return "access-" + code, nil
}

func (c *fakeOAuthClient) GetUserInfo(_ context.Context, _ string) (*auth.OAuthUserInfo, error) {
	if c.info == nil {
		return nil, errors.New("no user info")
	}
	return c.info, nil
}

type mockAuthorizer struct {
	CapabilitiesForFunc func(p authorization.Principal) (authorization.Capabilities, error)
}

func (m *mockAuthorizer) Authorize(authorization.Principal, string, string) (bool, error) {
	return false, nil
}

func (m *mockAuthorizer) CapabilitiesFor(p authorization.Principal) (authorization.Capabilities, error) {
	if m.CapabilitiesForFunc != nil {
		return m.CapabilitiesForFunc(p)
	}
	return authorization.None(), nil
}
