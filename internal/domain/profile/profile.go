// Package profile mirrors the accounts owned by the authentication layer and
// carries each person's role.
package profile

import (
	"fmt"
	"net/mail"
	"time"
	"unicode/utf8"

	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/biztime"
)

const MaxNameLength = 100

// SignUpMetadata is what a new user supplies when creating an account.
// Role is intentionally absent: every profile starts as employee.
type SignUpMetadata struct {
	FullName     string
	DepartmentID *string
	EmployeeID   *string
	JobTitle     *string
	Phone        *string
}

type Profile struct {
	id           string
	email        string
	fullName     string
	role         authorization.Role
	departmentID *string
	managerID    *string
	employeeID   *string
	jobTitle     *string
	phone        *string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewProfileFromSignUp builds the profile created alongside a new account.
func NewProfileFromSignUp(accountID, email string, md SignUpMetadata) (*Profile, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address")
	}
	if err := validateName(md.FullName); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Profile{
		id:           accountID,
		email:        email,
		fullName:     md.FullName,
		role:         authorization.RoleEmployee,
		departmentID: md.DepartmentID,
		employeeID:   md.EmployeeID,
		jobTitle:     md.JobTitle,
		phone:        md.Phone,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID           string
	Email        string
	FullName     string
	Role         authorization.Role
	DepartmentID *string
	ManagerID    *string
	EmployeeID   *string
	JobTitle     *string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructProfile(p ReconstructParams) (*Profile, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("profile ID cannot be empty")
	}
	if !p.Role.IsValid() {
		return nil, fmt.Errorf("profile %s has invalid role %q", p.ID, p.Role)
	}
	return &Profile{
		id:           p.ID,
		email:        p.Email,
		fullName:     p.FullName,
		role:         p.Role,
		departmentID: p.DepartmentID,
		managerID:    p.ManagerID,
		employeeID:   p.EmployeeID,
		jobTitle:     p.JobTitle,
		phone:        p.Phone,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("full_name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("full_name exceeds maximum length of %d characters", MaxNameLength)
	}
	return nil
}

func (p *Profile) ID() string               { return p.id }
func (p *Profile) Email() string            { return p.email }
func (p *Profile) FullName() string         { return p.fullName }
func (p *Profile) Role() authorization.Role { return p.role }
func (p *Profile) DepartmentID() *string    { return p.departmentID }
func (p *Profile) ManagerID() *string       { return p.managerID }
func (p *Profile) EmployeeID() *string      { return p.employeeID }
func (p *Profile) JobTitle() *string        { return p.jobTitle }
func (p *Profile) Phone() *string           { return p.phone }
func (p *Profile) CreatedAt() time.Time     { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time     { return p.updatedAt }

// Details is the self-service editable part of a profile.
type Details struct {
	FullName     string
	DepartmentID *string
	ManagerID    *string
	EmployeeID   *string
	JobTitle     *string
	Phone        *string
}

func (p *Profile) UpdateDetails(d Details) error {
	if err := validateName(d.FullName); err != nil {
		return err
	}
	if d.ManagerID != nil && *d.ManagerID == p.id {
		return fmt.Errorf("a profile cannot be its own manager")
	}
	p.fullName = d.FullName
	p.departmentID = d.DepartmentID
	p.managerID = d.ManagerID
	p.employeeID = d.EmployeeID
	p.jobTitle = d.JobTitle
	p.phone = d.Phone
	p.updatedAt = biztime.NowUTC()
	return nil
}

func (p *Profile) ChangeRole(role authorization.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	p.role = role
	p.updatedAt = biztime.NowUTC()
	return nil
}
