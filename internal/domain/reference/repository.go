package reference

import "context"

// Repository reads and seeds reference data. Lookups return (nil, nil) on miss.
type Repository interface {
	ListDepartments(ctx context.Context) ([]*Department, error)
	ListCategories(ctx context.Context) ([]*IssueCategory, error)
	GetDepartment(ctx context.Context, id string) (*Department, error)
	GetCategory(ctx context.Context, id string) (*IssueCategory, error)
	GetCategoryByName(ctx context.Context, name string) (*IssueCategory, error)
	GetDepartmentByName(ctx context.Context, name string) (*Department, error)
	SaveDepartment(ctx context.Context, d *Department) error
	SaveCategory(ctx context.Context, c *IssueCategory) error
}
