package profile

import "context"

// Repository stores profiles. Lookups return (nil, nil) on miss.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Profile, error)
}

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByGoogleSubject(ctx context.Context, subject string) (*Account, error)
}
