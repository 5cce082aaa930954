package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/candor-hq/candor/internal/shared/biztime"
)

// Account is the credential record behind a profile. Exactly one of
// passwordHash and googleSubject is normally set.
type Account struct {
	id            string
	email         string
	passwordHash  string
	googleSubject *string
	lastSignInAt  *time.Time
	createdAt     time.Time
}

func NewPasswordAccount(email, passwordHash string) (*Account, error) {
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}
	return newAccount(email, passwordHash, nil)
}

func NewGoogleAccount(email, subject string) (*Account, error) {
	if subject == "" {
		return nil, fmt.Errorf("google subject is required")
	}
	return newAccount(email, "", &subject)
}

func newAccount(email, hash string, subject *string) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return &Account{
		id:            uuid.NewString(),
		email:         email,
		passwordHash:  hash,
		googleSubject: subject,
		createdAt:     biztime.NowUTC(),
	}, nil
}

func ReconstructAccount(id, email, passwordHash string, googleSubject *string, lastSignInAt *time.Time, createdAt time.Time) *Account {
	return &Account{
		id:            id,
		email:         email,
		passwordHash:  passwordHash,
		googleSubject: googleSubject,
		lastSignInAt:  lastSignInAt,
		createdAt:     createdAt,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Account) ID() string               { return a.id }
func (a *Account) Email() string            { return a.email }
func (a *Account) PasswordHash() string     { return a.passwordHash }
func (a *Account) GoogleSubject() *string   { return a.googleSubject }
func (a *Account) LastSignInAt() *time.Time { return a.lastSignInAt }
func (a *Account) CreatedAt() time.Time     { return a.createdAt }
func (a *Account) HasPassword() bool        { return a.passwordHash != "" }

func (a *Account) LinkGoogle(subject string) {
	a.googleSubject = &subject
}

func (a *Account) RecordSignIn() {
	now := biztime.NowUTC()
	a.lastSignInAt = &now
}
