package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsPrivileged(t *testing.T) {
	assert.False(t, RoleAnonymous.IsPrivileged())
	assert.False(t, RoleEmployee.IsPrivileged())
	assert.True(t, RoleManager.IsPrivileged())
	assert.True(t, RoleHR.IsPrivileged())
	assert.True(t, RoleAdmin.IsPrivileged())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleHR, ParseRole("hr"))
	assert.Equal(t, RoleAnonymous, ParseRole(""))
	assert.Equal(t, RoleAnonymous, ParseRole("superuser"))
	assert.False(t, RoleAnonymous.IsValid())
}

func TestPrincipal_IsAuthenticated(t *testing.T) {
	assert.False(t, Anonymous().IsAuthenticated())
	assert.True(t, Principal{UserID: "u-1", Role: RoleEmployee}.IsAuthenticated())
	assert.False(t, Principal{Role: RoleEmployee}.IsAuthenticated())
}
