package permission

import (
	"fmt"

	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// roleStaff groups the roles that triage issues. It is never assigned to a
// profile directly.
const roleStaff = "staff"

var (
	anonymous = authorization.RoleAnonymous.String()
	employee  = authorization.RoleEmployee.String()
	manager   = authorization.RoleManager.String()
	hr        = authorization.RoleHR.String()
	admin     = authorization.RoleAdmin.String()
)

// DefaultPolicies is the access table for the portal.
var DefaultPolicies = [][]string{
	// Anyone, with or without a session
	{anonymous, authorization.ResourceDepartments, authorization.ActionRead},
	{anonymous, authorization.ResourceIssueCategories, authorization.ActionRead},
	{anonymous, authorization.ResourceIssues, authorization.ActionInsert},
	{anonymous, authorization.ResourceIssues, authorization.ActionRead},
	{anonymous, authorization.ResourceIssueUpdates, authorization.ActionRead},
	{anonymous, authorization.ResourceAnonymousTokens, authorization.ActionRead},
	{anonymous, authorization.ResourceAttachments, authorization.ActionInsert},

	// Signed-in employees
	{employee, authorization.ResourceDashboard, authorization.ActionRead},
	{employee, authorization.ResourceProfiles, authorization.ActionUpdate},

	// Triage staff
	{roleStaff, authorization.ResourceIssues, authorization.ActionUpdate},
	{roleStaff, authorization.ResourceIssueUpdates, authorization.ActionInsert},
	{roleStaff, authorization.ResourceIssueUpdatesPrivate, authorization.ActionRead},
	{roleStaff, authorization.ResourceAttachments, authorization.ActionRead},

	{admin, authorization.ResourceProfileRoles, authorization.ActionUpdate},
}

// DefaultInheritance lists child, parent pairs.
var DefaultInheritance = [][2]string{
	{employee, anonymous},
	{manager, employee},
	{hr, employee},
	{admin, employee},
	{manager, roleStaff},
	{hr, roleStaff},
	{admin, roleStaff},
}

// SeedDefaultPolicies adds any missing default policy. Existing rows are left
// alone, so it is safe on every start.
func SeedDefaultPolicies(e *Enforcer, log logger.Interface) error {
	for _, policy := range DefaultPolicies {
		if err := e.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			log.Errorw("failed to add permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
	}

	for _, pair := range DefaultInheritance {
		if err := e.AddRoleInheritance(pair[0], pair[1]); err != nil {
			return fmt.Errorf("failed to add inheritance [%s -> %s]: %w", pair[0], pair[1], err)
		}
	}

	log.Infow("permissions initialized", "policies", len(DefaultPolicies), "inheritance", len(DefaultInheritance))
	return nil
}
