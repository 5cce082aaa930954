package dto

import (
	"time"

	"github.com/candor-hq/candor/internal/domain/profile"
)

type ProfileDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	DepartmentID *string   `json:"department_id,omitempty"`
	ManagerID    *string   `json:"manager_id,omitempty"`
	EmployeeID   *string   `json:"employee_id,omitempty"`
	JobTitle     *string   `json:"job_title,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToProfileDTO(p *profile.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:           p.ID(),
		Email:        p.Email(),
		FullName:     p.FullName(),
		Role:         p.Role().String(),
		DepartmentID: p.DepartmentID(),
		ManagerID:    p.ManagerID(),
		EmployeeID:   p.EmployeeID(),
		JobTitle:     p.JobTitle(),
		Phone:        p.Phone(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}
