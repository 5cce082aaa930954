package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/infrastructure/repository"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

func strPtr(s string) *string { return &s }

func TestGetAndUpdateProfile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	log := logger.NewNopLogger()

	res, err := f.signUp.Execute(ctx, SignUpCommand{Email: "dana@example.com", Password: "correct horse battery", FullName: "Dana Reyes"})
	require.NoError(t, err)

	refRepo := repository.NewReferenceRepository(f.gdb)
	dep, err := reference.NewDepartment("Operations", "")
	require.NoError(t, err)
	require.NoError(t, refRepo.SaveDepartment(ctx, dep))

	get := NewGetProfileUseCase(f.profiles, log)
	update := NewUpdateProfileUseCase(f.profiles, refRepo, log)

	got, err := get.Execute(ctx, GetProfileQuery{UserID: res.Profile.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", got.FullName)

	_, err = get.Execute(ctx, GetProfileQuery{UserID: "missing"})
	assert.True(t, errors.IsNotFoundError(err))

	updated, err := update.Execute(ctx, UpdateProfileCommand{
		UserID:       res.Profile.ID,
		FullName:     strPtr("Dana R."),
		DepartmentID: strPtr(dep.ID()),
		JobTitle:     strPtr("Site lead"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana R.", updated.FullName)
	require.NotNil(t, updated.DepartmentID)
	assert.Equal(t, dep.ID(), *updated.DepartmentID)

	cleared, err := update.Execute(ctx, UpdateProfileCommand{UserID: res.Profile.ID, JobTitle: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.JobTitle)
	assert.NotNil(t, cleared.DepartmentID)

	_, err = update.Execute(ctx, UpdateProfileCommand{UserID: res.Profile.ID, DepartmentID: strPtr("nope")})
	assert.True(t, errors.IsValidationError(err))

	_, err = update.Execute(ctx, UpdateProfileCommand{UserID: res.Profile.ID, ManagerID: strPtr(res.Profile.ID)})
	assert.True(t, errors.IsValidationError(err))
}

func TestChangeRoleUseCase(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	uc := NewChangeRoleUseCase(f.profiles, logger.NewNopLogger())

	target, err := f.signUp.Execute(ctx, SignUpCommand{Email: "dana@example.com", Password: "correct horse battery", FullName: "Dana Reyes"})
	require.NoError(t, err)
	admin := authorization.Capabilities{Role: authorization.RoleAdmin, CanManageRoles: true}

	_, err = uc.Execute(ctx, ChangeRoleCommand{TargetID: target.Profile.ID, Role: "hr", ActorID: "admin-1"})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = uc.Execute(ctx, ChangeRoleCommand{TargetID: target.Profile.ID, Role: "anonymous", ActorID: "admin-1", Capabilities: admin})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(ctx, ChangeRoleCommand{TargetID: "admin-1", Role: "employee", ActorID: "admin-1", Capabilities: admin})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(ctx, ChangeRoleCommand{TargetID: "missing", Role: "hr", ActorID: "admin-1", Capabilities: admin})
	assert.True(t, errors.IsNotFoundError(err))

	changed, err := uc.Execute(ctx, ChangeRoleCommand{TargetID: target.Profile.ID, Role: "hr", ActorID: "admin-1", Capabilities: admin})
	require.NoError(t, err)
	assert.Equal(t, "hr", changed.Role)
}

func TestGetCapabilitiesUseCase(t *testing.T) {
	authz := &mockAuthorizer{
		CapabilitiesForFunc: func(p authorization.Principal) (authorization.Capabilities, error) {
			return authorization.Capabilities{Role: p.Role, CanViewDashboard: true}, nil
		},
	}
	uc := NewGetCapabilitiesUseCase(authz, logger.NewNopLogger())

	caps, err := uc.Execute(context.Background(), authorization.Principal{UserID: "u", Role: authorization.RoleEmployee})
	require.NoError(t, err)
	assert.True(t, caps.CanViewDashboard)
	assert.Equal(t, authorization.RoleEmployee, caps.Role)
}
