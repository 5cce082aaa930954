package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/shared/authorization"
)

func strPtr(s string) *string { return &s }

func TestNewProfileFromSignUp_StartsAsEmployee(t *testing.T) {
	p, err := NewProfileFromSignUp("acc-1", "dana@example.com", SignUpMetadata{
		FullName:     "Dana Reyes",
		DepartmentID: strPtr("dept-ops"),
		JobTitle:     strPtr("Technician"),
	})
	require.NoError(t, err)

	assert.Equal(t, "acc-1", p.ID())
	assert.Equal(t, authorization.RoleEmployee, p.Role())
	assert.Equal(t, "dept-ops", *p.DepartmentID())
	assert.Nil(t, p.ManagerID())
}

func TestNewProfileFromSignUp_Validation(t *testing.T) {
	_, err := NewProfileFromSignUp("", "dana@example.com", SignUpMetadata{FullName: "Dana"})
	assert.Error(t, err)

	_, err = NewProfileFromSignUp("acc-1", "not-an-email", SignUpMetadata{FullName: "Dana"})
	assert.Error(t, err)

	_, err = NewProfileFromSignUp("acc-1", "dana@example.com", SignUpMetadata{})
	assert.Error(t, err)
}

func TestUpdateDetails_RejectsSelfManager(t *testing.T) {
	p, err := NewProfileFromSignUp("acc-1", "dana@example.com", SignUpMetadata{FullName: "Dana"})
	require.NoError(t, err)

	err = p.UpdateDetails(Details{FullName: "Dana", ManagerID: strPtr("acc-1")})
	assert.Error(t, err)

	require.NoError(t, p.UpdateDetails(Details{FullName: "Dana R.", ManagerID: strPtr("acc-2")}))
	assert.Equal(t, "Dana R.", p.FullName())
	assert.Equal(t, "acc-2", *p.ManagerID())
}

func TestChangeRole(t *testing.T) {
	p, err := NewProfileFromSignUp("acc-1", "dana@example.com", SignUpMetadata{FullName: "Dana"})
	require.NoError(t, err)

	require.NoError(t, p.ChangeRole(authorization.RoleHR))
	assert.Equal(t, authorization.RoleHR, p.Role())
	assert.Error(t, p.ChangeRole(authorization.RoleAnonymous))
}

func TestNewPasswordAccount_NormalizesEmail(t *testing.T) {
	a, err := NewPasswordAccount("  Dana@Example.COM ", "$2a$hash")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", a.Email())
	assert.True(t, a.HasPassword())

	_, err = NewPasswordAccount("dana@example.com", "")
	assert.Error(t, err)
}
