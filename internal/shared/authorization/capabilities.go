package authorization

// Resources and actions understood by the policy engine.
const (
	ResourceDepartments         = "departments"
	ResourceIssueCategories     = "issue_categories"
	ResourceIssues              = "issues"
	ResourceIssueUpdates        = "issue_updates"
	ResourceIssueUpdatesPrivate = "issue_updates_private"
	ResourceAnonymousTokens     = "anonymous_tokens"
	ResourceDashboard           = "dashboard"
	ResourceProfiles            = "profiles"
	ResourceProfileRoles        = "profile_roles"
	ResourceAttachments         = "attachments"

	ActionRead   = "read"
	ActionInsert = "insert"
	ActionUpdate = "update"
)

// Capabilities is what a principal may do, resolved once per request from the
// policy engine. Update operations take it as an argument and refuse early
// when the matching flag is false.
type Capabilities struct {
	Role                  Role `json:"role"`
	CanSubmitIssues       bool `json:"can_submit_issues"`
	CanUpdateIssues       bool `json:"can_update_issues"`
	CanPostUpdates        bool `json:"can_post_updates"`
	CanViewPrivateUpdates bool `json:"can_view_private_updates"`
	CanViewDashboard      bool `json:"can_view_dashboard"`
	CanViewAttachments    bool `json:"can_view_attachments"`
	CanManageRoles        bool `json:"can_manage_roles"`
	// StatusTransitions lists the forward moves offered from each status.
	// Empty unless CanUpdateIssues.
	StatusTransitions map[string][]string `json:"status_transitions,omitempty"`
}

// None grants nothing. It is the zero value, spelled out for readability.
func None() Capabilities {
	return Capabilities{Role: RoleAnonymous}
}
