package http

import (
	"gorm.io/gorm"

	"github.com/candor-hq/candor/internal/domain/issue"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	issueRepo     issue.Repository
	updateRepo    issue.UpdateRepository
	tokenRepo     issue.TokenRepository
	referenceRepo reference.Repository
	profileRepo   profile.Repository
	accountRepo   profile.AccountRepository
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		issueRepo:     repository.NewIssueRepository(db),
		updateRepo:    repository.NewIssueUpdateRepository(db),
		tokenRepo:     repository.NewAnonymousTokenRepository(db),
		referenceRepo: repository.NewReferenceRepository(db),
		profileRepo:   repository.NewProfileRepository(db),
		accountRepo:   repository.NewAccountRepository(db),
	}
}
