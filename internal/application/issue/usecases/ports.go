package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/domain/shared/events"
	"github.com/candor-hq/candor/internal/infrastructure/storage"
	"github.com/candor-hq/candor/internal/shared/errors"
)

// ErrIssueNotFound is returned for unknown ids and for tokens that match
// nothing or have expired. Callers cannot tell those cases apart.
var ErrIssueNotFound = errors.NewNotFoundError("issue not found")

// TokenGenerator issues tracking tokens and derives the fingerprint used as
// a cache key so the raw token never leaves the database.
type TokenGenerator interface {
	Generate() (string, error)
	Fingerprint(token string) string
}

type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type IssueCache interface {
	GetByFingerprint(ctx context.Context, fingerprint string, dst any) (bool, error)
	Set(ctx context.Context, issueID, fingerprint string, v any) error
	Invalidate(ctx context.Context, issueID string) error
}

type AttachmentStore interface {
	PresignUpload(ctx context.Context, contentType string) (*storage.PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (*storage.PresignedURL, error)
}

type EventPublisher = events.EventPublisher

// publishEvents forwards recorded domain events. A failure is logged by the
// caller and never undoes the write that produced them.
func publishEvents(publisher EventPublisher, recorded []interface{}) error {
	if publisher == nil || len(recorded) == 0 {
		return nil
	}
	out := make([]events.DomainEvent, 0, len(recorded))
	for _, e := range recorded {
		if de, ok := e.(events.DomainEvent); ok {
			out = append(out, de)
		}
	}
	return publisher.PublishAll(out)
}
