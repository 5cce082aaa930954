package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// rbacModel matches a role subject, directly or through inheritance, against
// an exact resource and action.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var _ authorization.Authorizer = (*Enforcer)(nil)

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer persists policies in the casbin_rule table through gorm.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// NewMemoryEnforcer keeps policies in memory only.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func (e *Enforcer) Enforce(role string, resource string, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// Authorize checks the principal's role. Callers without a valid session
// are evaluated as anonymous.
func (e *Enforcer) Authorize(p authorization.Principal, resource, action string) (bool, error) {
	role := p.Role
	if !p.IsAuthenticated() {
		role = authorization.RoleAnonymous
	}
	return e.Enforce(role.String(), resource, action)
}

func (e *Enforcer) CapabilitiesFor(p authorization.Principal) (authorization.Capabilities, error) {
	caps := authorization.Capabilities{Role: p.Role}
	if !p.IsAuthenticated() {
		caps.Role = authorization.RoleAnonymous
	}

	checks := []struct {
		resource string
		action   string
		flag     *bool
	}{
		{authorization.ResourceIssues, authorization.ActionInsert, &caps.CanSubmitIssues},
		{authorization.ResourceIssues, authorization.ActionUpdate, &caps.CanUpdateIssues},
		{authorization.ResourceIssueUpdates, authorization.ActionInsert, &caps.CanPostUpdates},
		{authorization.ResourceIssueUpdatesPrivate, authorization.ActionRead, &caps.CanViewPrivateUpdates},
		{authorization.ResourceDashboard, authorization.ActionRead, &caps.CanViewDashboard},
		{authorization.ResourceAttachments, authorization.ActionRead, &caps.CanViewAttachments},
		{authorization.ResourceProfileRoles, authorization.ActionUpdate, &caps.CanManageRoles},
	}
	for _, c := range checks {
		ok, err := e.Enforce(caps.Role.String(), c.resource, c.action)
		if err != nil {
			return authorization.None(), err
		}
		*c.flag = ok
	}

	if caps.CanUpdateIssues {
		caps.StatusTransitions = make(map[string][]string, len(vo.AllStatuses))
		for _, s := range vo.AllStatuses {
			next := s.ForwardTransitions()
			names := make([]string, len(next))
			for i, n := range next {
				names[i] = n.String()
			}
			caps.StatusTransitions[s.String()] = names
		}
	}

	return caps, nil
}

func (e *Enforcer) AddPolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to add policy", "error", err)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) RemovePolicy(role string, resource string, action string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role, resource, action); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

// AddRoleInheritance makes child inherit every permission of parent.
func (e *Enforcer) AddRoleInheritance(child, parent string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddGroupingPolicy(child, parent); err != nil {
		e.logger.Errorw("failed to add role inheritance", "error", err, "child", child, "parent", parent)
		return fmt.Errorf("failed to add role inheritance: %w", err)
	}
	return nil
}

// GetPermissionsForRole includes permissions inherited from parent roles.
func (e *Enforcer) GetPermissionsForRole(role string) ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	permissions, err := e.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for role: %w", err)
	}
	return permissions, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
