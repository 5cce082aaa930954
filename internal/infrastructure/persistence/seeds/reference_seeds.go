package seeds

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/textutil"
)

//go:embed reference.yaml
var defaultReferenceData []byte

type ReferenceData struct {
	Departments []DepartmentSeed `yaml:"departments"`
	Categories  []CategorySeed   `yaml:"categories"`
}

type DepartmentSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
}

// SeedResult reports how many rows were inserted and skipped.
type SeedResult struct {
	DepartmentsCreated int
	DepartmentsSkipped int
	CategoriesCreated  int
	CategoriesSkipped  int
}

// DefaultReferenceData returns the departments and categories shipped with the binary.
func DefaultReferenceData() (*ReferenceData, error) {
	return ParseReferenceData(defaultReferenceData)
}

func ParseReferenceData(raw []byte) (*ReferenceData, error) {
	var data ReferenceData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse reference data: %w", err)
	}
	return &data, nil
}

// SeedReferenceData inserts departments and categories whose names are not
// already present. Names are compared case-insensitively, so running it twice
// is a no-op.
func SeedReferenceData(ctx context.Context, repo reference.Repository, data *ReferenceData, log logger.Interface) (*SeedResult, error) {
	result := &SeedResult{}

	existingDepts, err := repo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	seen := make(map[string]struct{}, len(existingDepts))
	for _, d := range existingDepts {
		seen[textutil.FoldKey(d.Name())] = struct{}{}
	}
	for _, s := range data.Departments {
		key := textutil.FoldKey(s.Name)
		if _, ok := seen[key]; ok {
			result.DepartmentsSkipped++
			continue
		}
		d, err := reference.NewDepartment(s.Name, s.Description)
		if err != nil {
			return nil, fmt.Errorf("invalid department %q: %w", s.Name, err)
		}
		if err := repo.SaveDepartment(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to save department %q: %w", s.Name, err)
		}
		seen[key] = struct{}{}
		result.DepartmentsCreated++
	}

	existingCats, err := repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	seen = make(map[string]struct{}, len(existingCats))
	for _, c := range existingCats {
		seen[textutil.FoldKey(c.Name())] = struct{}{}
	}
	for _, s := range data.Categories {
		key := textutil.FoldKey(s.Name)
		if _, ok := seen[key]; ok {
			result.CategoriesSkipped++
			continue
		}
		c, err := reference.NewIssueCategory(s.Name, s.Description, s.Color, s.Icon)
		if err != nil {
			return nil, fmt.Errorf("invalid category %q: %w", s.Name, err)
		}
		if err := repo.SaveCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to save category %q: %w", s.Name, err)
		}
		seen[key] = struct{}{}
		result.CategoriesCreated++
	}

	log.Infow("reference data seeded",
		"departments_created", result.DepartmentsCreated,
		"departments_skipped", result.DepartmentsSkipped,
		"categories_created", result.CategoriesCreated,
		"categories_skipped", result.CategoriesSkipped,
	)
	return result, nil
}
