package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/infrastructure/permission"
	"github.com/candor-hq/candor/internal/infrastructure/ratelimit"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/constants"
	"github.com/candor-hq/candor/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testStack struct {
	jwt    *auth.JWTService
	authMW *AuthMiddleware
	permMW *PermissionMiddleware
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	log := logger.NewNopLogger()
	enforcer, err := permission.NewMemoryEnforcer(log)
	require.NoError(t, err)
	require.NoError(t, permission.SeedDefaultPolicies(enforcer, log))

	jwtService := auth.NewJWTService("middleware-test-secret", 15, 7)
	return &testStack{
		jwt:    jwtService,
		authMW: NewAuthMiddleware(jwtService, log),
		permMW: NewPermissionMiddleware(enforcer, log),
	}
}

func (s *testStack) bearer(t *testing.T, role authorization.Role) string {
	t.Helper()
	pair, err := s.jwt.Generate("user-"+role.String(), role)
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func serve(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(constants.HeaderAuthorization, authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuth_AnonymousAndSignedIn(t *testing.T) {
	s := newTestStack(t)
	r := gin.New()
	r.Use(s.authMW.OptionalAuth(), s.permMW.LoadCapabilities())
	r.GET("/whoami", func(c *gin.Context) {
		p := GetPrincipal(c)
		caps := GetCapabilities(c)
		c.JSON(http.StatusOK, gin.H{"role": p.Role, "dashboard": caps.CanViewDashboard})
	})

	w := serve(r, http.MethodGet, "/whoami", "")
	assert.JSONEq(t, `{"role":"anonymous","dashboard":false}`, w.Body.String())

	w = serve(r, http.MethodGet, "/whoami", "Bearer not-a-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"anonymous","dashboard":false}`, w.Body.String())

	w = serve(r, http.MethodGet, "/whoami", s.bearer(t, authorization.RoleEmployee))
	assert.JSONEq(t, `{"role":"employee","dashboard":true}`, w.Body.String())
}

func TestRequireAuth_RejectsRefreshToken(t *testing.T) {
	s := newTestStack(t)
	r := gin.New()
	r.GET("/me", s.authMW.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)

	pair, err := s.jwt.Generate("u-1", authorization.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "Bearer "+pair.RefreshToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/me", "Bearer "+pair.AccessToken).Code)
}

func TestRequireStaffAndAdmin(t *testing.T) {
	s := newTestStack(t)
	r := gin.New()
	r.Use(s.authMW.OptionalAuth())
	r.GET("/staff", s.permMW.RequireStaff(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", s.permMW.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		role  authorization.Role
		staff int
		admin int
	}{
		{authorization.RoleAnonymous, http.StatusUnauthorized, http.StatusUnauthorized},
		{authorization.RoleEmployee, http.StatusForbidden, http.StatusForbidden},
		{authorization.RoleManager, http.StatusOK, http.StatusForbidden},
		{authorization.RoleHR, http.StatusOK, http.StatusForbidden},
		{authorization.RoleAdmin, http.StatusOK, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			header := ""
			if tc.role != authorization.RoleAnonymous {
				header = s.bearer(t, tc.role)
			}
			assert.Equal(t, tc.staff, serve(r, http.MethodGet, "/staff", header).Code)
			assert.Equal(t, tc.admin, serve(r, http.MethodGet, "/admin", header).Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(ratelimit.NewRedisRateLimiter(client), logger.NewNopLogger())
	r := gin.New()
	r.GET("/track/:token", rl.Limit("track", ratelimit.Rule{Limit: 2, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/track/a", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/track/b", "").Code)

	w := serve(r, http.MethodGet, "/track/c", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRetryAfter))
	assert.Contains(t, w.Body.String(), `"rate_limited"`)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	rl := NewRateLimiter(ratelimit.NewRedisRateLimiter(client), logger.NewNopLogger())
	r := gin.New()
	r.GET("/x", rl.Limit("x", ratelimit.Rule{Limit: 1, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)

	disabled := NewRateLimiter(nil, logger.NewNopLogger())
	r2 := gin.New()
	r2.GET("/y", disabled.Limit("y", ratelimit.Rule{Limit: 1, Window: time.Minute}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, serve(r2, http.MethodGet, "/y", "").Code)
	assert.Equal(t, http.StatusOK, serve(r2, http.MethodGet, "/y", "").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	w := serve(r, http.MethodGet, "/", "")
	generated := w.Header().Get(constants.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
