// Package reference holds the lookup tables shown on the report form.
package reference

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Department struct {
	id          string
	name        string
	description string
	createdAt   time.Time
}

func NewDepartment(name, description string) (*Department, error) {
	if name == "" {
		return nil, fmt.Errorf("department name is required")
	}
	return &Department{
		id:          uuid.NewString(),
		name:        name,
		description: description,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructDepartment(id, name, description string, createdAt time.Time) *Department {
	return &Department{id: id, name: name, description: description, createdAt: createdAt}
}

func (d *Department) ID() string           { return d.id }
func (d *Department) Name() string         { return d.name }
func (d *Department) Description() string  { return d.description }
func (d *Department) CreatedAt() time.Time { return d.createdAt }
