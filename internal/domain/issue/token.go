package issue

import (
	"fmt"
	"time"

	"github.com/candor-hq/candor/internal/shared/biztime"
)

// DefaultTokenTTL applies when configuration leaves issues.token_ttl unset.
const DefaultTokenTTL = 90 * 24 * time.Hour

// AnonymousToken is the lookup row for a reporter's token. It can expire
// independently of the issue it points to.
type AnonymousToken struct {
	token     string
	issueID   string
	expiresAt time.Time
	createdAt time.Time
}

func NewAnonymousToken(token, issueID string, ttl time.Duration) (*AnonymousToken, error) {
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if issueID == "" {
		return nil, fmt.Errorf("issue ID is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := biztime.NowUTC()
	return &AnonymousToken{
		token:     token,
		issueID:   issueID,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}, nil
}

func ReconstructAnonymousToken(token, issueID string, expiresAt, createdAt time.Time) *AnonymousToken {
	return &AnonymousToken{
		token:     token,
		issueID:   issueID,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

func (t *AnonymousToken) Token() string        { return t.token }
func (t *AnonymousToken) IssueID() string      { return t.issueID }
func (t *AnonymousToken) ExpiresAt() time.Time { return t.expiresAt }
func (t *AnonymousToken) CreatedAt() time.Time { return t.createdAt }

func (t *AnonymousToken) IsExpired(now time.Time) bool {
	return !now.Before(t.expiresAt)
}
