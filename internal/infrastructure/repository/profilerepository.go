package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/mappers"
	"github.com/candor-hq/candor/internal/infrastructure/persistence/models"
	"github.com/candor-hq/candor/internal/shared/db"
	apperrors "github.com/candor-hq/candor/internal/shared/errors"
)

type ProfileRepository struct {
	db     *gorm.DB
	mapper mappers.ProfileMapper
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db, mapper: mappers.NewProfileMapper()}
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ToModel(p)).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("a profile with this email already exists")
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *profile.Profile) error {
	model := r.mapper.ToModel(p)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProfileModel{}).
		Where("id = ?", model.ID).
		Select("full_name", "role", "department_id", "manager_id", "employee_id", "job_title", "phone", "updated_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	var model models.ProfileModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

// GetByIDs skips ids that do not exist.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]*profile.Profile, error) {
	if len(ids) == 0 {
		return []*profile.Profile{}, nil
	}
	var rows []models.ProfileModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	out := make([]*profile.Profile, 0, len(rows))
	for i := range rows {
		p, err := r.mapper.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type AccountRepository struct {
	db     *gorm.DB
	mapper mappers.ProfileMapper
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db, mapper: mappers.NewProfileMapper()}
}

func (r *AccountRepository) Create(ctx context.Context, a *profile.Account) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.AccountToModel(a)).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("an account with this email already exists")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, a *profile.Account) error {
	model := r.mapper.AccountToModel(a)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AccountModel{}).
		Where("id = ?", model.ID).
		Select("password_hash", "google_subject", "last_sign_in_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*profile.Account, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*profile.Account, error) {
	return r.first(ctx, "email = ?", profile.NormalizeEmail(email))
}

func (r *AccountRepository) GetByGoogleSubject(ctx context.Context, subject string) (*profile.Account, error) {
	return r.first(ctx, "google_subject = ?", subject)
}

func (r *AccountRepository) first(ctx context.Context, query string, arg interface{}) (*profile.Account, error) {
	var model models.AccountModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return r.mapper.AccountToDomain(&model), nil
}
