// Package authorization holds the role vocabulary and the capability object
// handed to use cases that mutate issues.
package authorization

// Role is a profile role. RoleAnonymous is used for callers without a session.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleEmployee  Role = "employee"
	RoleManager   Role = "manager"
	RoleHR        Role = "hr"
	RoleAdmin     Role = "admin"
)

// AssignableRoles are the roles a profile can hold.
var AssignableRoles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged reports membership in the staff set allowed to triage issues.
func (r Role) IsPrivileged() bool {
	return r == RoleManager || r == RoleHR || r == RoleAdmin
}

// ParseRole maps unknown or empty input to RoleAnonymous.
func ParseRole(s string) Role {
	r := Role(s)
	if r.IsValid() {
		return r
	}
	return RoleAnonymous
}

// Principal identifies the caller of a use case.
type Principal struct {
	UserID string
	Role   Role
}

// Anonymous is the principal for requests without a valid access token.
func Anonymous() Principal {
	return Principal{Role: RoleAnonymous}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != "" && p.Role != RoleAnonymous
}
