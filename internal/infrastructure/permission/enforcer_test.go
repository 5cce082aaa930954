package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/infrastructure/database/dbtest"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/logger"
)

func newSeededEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewMemoryEnforcer(logger.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, SeedDefaultPolicies(e, logger.NewNopLogger()))
	return e
}

func TestEnforcer_PolicyTable(t *testing.T) {
	e := newSeededEnforcer(t)

	tests := []struct {
		role     authorization.Role
		resource string
		action   string
		want     bool
	}{
		{authorization.RoleAnonymous, authorization.ResourceIssues, authorization.ActionInsert, true},
		{authorization.RoleAnonymous, authorization.ResourceIssues, authorization.ActionRead, true},
		{authorization.RoleAnonymous, authorization.ResourceIssues, authorization.ActionUpdate, false},
		{authorization.RoleAnonymous, authorization.ResourceDashboard, authorization.ActionRead, false},
		{authorization.RoleAnonymous, authorization.ResourceIssueUpdatesPrivate, authorization.ActionRead, false},
		{authorization.RoleEmployee, authorization.ResourceDepartments, authorization.ActionRead, true},
		{authorization.RoleEmployee, authorization.ResourceDashboard, authorization.ActionRead, true},
		{authorization.RoleEmployee, authorization.ResourceIssues, authorization.ActionUpdate, false},
		{authorization.RoleEmployee, authorization.ResourceIssueUpdates, authorization.ActionInsert, false},
		{authorization.RoleManager, authorization.ResourceIssues, authorization.ActionUpdate, true},
		{authorization.RoleHR, authorization.ResourceIssueUpdatesPrivate, authorization.ActionRead, true},
		{authorization.RoleHR, authorization.ResourceProfileRoles, authorization.ActionUpdate, false},
		{authorization.RoleAdmin, authorization.ResourceIssueUpdates, authorization.ActionInsert, true},
		{authorization.RoleAdmin, authorization.ResourceProfileRoles, authorization.ActionUpdate, true},
		{authorization.RoleAdmin, authorization.ResourceIssueCategories, authorization.ActionRead, true},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+"/"+tt.resource+"/"+tt.action, func(t *testing.T) {
			got, err := e.Enforce(tt.role.String(), tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnforcer_AuthorizeTreatsUnauthenticatedAsAnonymous(t *testing.T) {
	e := newSeededEnforcer(t)

	// A role without a user id is not a session.
	ok, err := e.Authorize(authorization.Principal{Role: authorization.RoleAdmin}, authorization.ResourceIssues, authorization.ActionUpdate)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.Authorize(authorization.Principal{UserID: "u1", Role: authorization.RoleAdmin}, authorization.ResourceIssues, authorization.ActionUpdate)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnforcer_CapabilitiesFor(t *testing.T) {
	e := newSeededEnforcer(t)

	anon, err := e.CapabilitiesFor(authorization.Anonymous())
	require.NoError(t, err)
	assert.Equal(t, authorization.RoleAnonymous, anon.Role)
	assert.True(t, anon.CanSubmitIssues)
	assert.False(t, anon.CanUpdateIssues)
	assert.False(t, anon.CanViewDashboard)
	assert.Nil(t, anon.StatusTransitions)

	emp, err := e.CapabilitiesFor(authorization.Principal{UserID: "e1", Role: authorization.RoleEmployee})
	require.NoError(t, err)
	assert.True(t, emp.CanViewDashboard)
	assert.False(t, emp.CanUpdateIssues)
	assert.False(t, emp.CanViewPrivateUpdates)

	hr, err := e.CapabilitiesFor(authorization.Principal{UserID: "h1", Role: authorization.RoleHR})
	require.NoError(t, err)
	assert.True(t, hr.CanUpdateIssues)
	assert.True(t, hr.CanPostUpdates)
	assert.True(t, hr.CanViewPrivateUpdates)
	assert.True(t, hr.CanViewAttachments)
	assert.False(t, hr.CanManageRoles)
	assert.Equal(t, []string{"closed"}, hr.StatusTransitions["resolved"])
	assert.Empty(t, hr.StatusTransitions["closed"])

	adm, err := e.CapabilitiesFor(authorization.Principal{UserID: "a1", Role: authorization.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, adm.CanManageRoles)
}

func TestSeedDefaultPolicies_IdempotentWithGormAdapter(t *testing.T) {
	gdb := dbtest.NewTestDB(t)
	log := logger.NewNopLogger()

	e, err := NewEnforcer(gdb, log)
	require.NoError(t, err)
	require.NoError(t, SeedDefaultPolicies(e, log))
	require.NoError(t, SeedDefaultPolicies(e, log))

	var count int64
	require.NoError(t, gdb.Table("casbin_rule").Count(&count).Error)
	assert.Equal(t, int64(len(DefaultPolicies)+len(DefaultInheritance)), count)

	// A fresh enforcer over the same table sees the persisted rules.
	reloaded, err := NewEnforcer(gdb, log)
	require.NoError(t, err)
	ok, err := reloaded.Enforce(authorization.RoleManager.String(), authorization.ResourceIssues, authorization.ActionUpdate)
	require.NoError(t, err)
	assert.True(t, ok)

	perms, err := reloaded.GetPermissionsForRole(authorization.RoleEmployee.String())
	require.NoError(t, err)
	assert.NotEmpty(t, perms)
}
