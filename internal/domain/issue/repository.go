package issue

import (
	"context"
	"time"
)

// Repository persists issues. Lookups return (nil, nil) when nothing matches.
type Repository interface {
	// Create inserts the issue and, when token is non-nil, its token row in
	// the same transaction.
	Create(ctx context.Context, issue *Issue, token *AnonymousToken) error
	Update(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, id string) (*Issue, error)
	GetByAnonymousToken(ctx context.Context, token string) (*Issue, error)
	// List returns matching issues newest first.
	List(ctx context.Context, filter Filter) ([]*Issue, error)
	// ListResolvedBefore returns resolved issues whose resolved_at is older than cutoff.
	ListResolvedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Issue, error)
}

type UpdateRepository interface {
	Create(ctx context.Context, update *IssueUpdate) error
	// ListByIssue returns updates oldest first.
	ListByIssue(ctx context.Context, issueID string, publicOnly bool) ([]*IssueUpdate, error)
}

type TokenRepository interface {
	GetByToken(ctx context.Context, token string) (*AnonymousToken, error)
}
