package usecases

import (
	"context"
	"fmt"

	"github.com/candor-hq/candor/internal/domain/issue"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/domain/profile"
	"github.com/candor-hq/candor/internal/domain/reference"
	"github.com/candor-hq/candor/internal/domain/shared/events"
	"github.com/candor-hq/candor/internal/infrastructure/email"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type Notifier interface {
	SendEscalation(ctx context.Context, msg email.EscalationMessage) error
	SendStatusChanged(ctx context.Context, to string, msg email.StatusChangedMessage) error
}

// IssueEventHandler turns issue events into e-mail. Escalations never carry
// reporter identity or the tracking token.
type IssueEventHandler struct {
	issueRepo   issue.Repository
	refRepo     reference.Repository
	profileRepo profile.Repository
	notifier    Notifier
	threshold   vo.Severity
	logger      logger.Interface
}

func NewIssueEventHandler(
	issueRepo issue.Repository,
	refRepo reference.Repository,
	profileRepo profile.Repository,
	notifier Notifier,
	threshold vo.Severity,
	logger logger.Interface,
) *IssueEventHandler {
	if !threshold.IsValid() {
		threshold = vo.SeverityHigh
	}
	return &IssueEventHandler{
		issueRepo:   issueRepo,
		refRepo:     refRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		threshold:   threshold,
		logger:      logger,
	}
}

func (h *IssueEventHandler) Register(sub events.EventSubscriber) error {
	if err := sub.Subscribe(issue.EventTypeIssueSubmitted, events.HandlerFunc(h.handleSubmitted)); err != nil {
		return err
	}
	return sub.Subscribe(issue.EventTypeIssueStatusChanged, events.HandlerFunc(h.handleStatusChanged))
}

func (h *IssueEventHandler) handleSubmitted(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(issue.IssueSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	if !e.Severity.AtLeast(h.threshold) {
		return nil
	}

	i, err := h.issueRepo.GetByID(ctx, e.AggregateID)
	if err != nil {
		return fmt.Errorf("load issue %s: %w", e.AggregateID, err)
	}
	if i == nil {
		return nil
	}

	msg := email.EscalationMessage{
		IssueID:     i.ID(),
		Title:       i.Title(),
		Description: i.Description(),
		Severity:    i.Severity().String(),
	}
	if c, err := h.refRepo.GetCategory(ctx, i.CategoryID()); err == nil && c != nil {
		msg.Category = c.Name()
	}
	if d := i.DepartmentID(); d != nil {
		if dept, err := h.refRepo.GetDepartment(ctx, *d); err == nil && dept != nil {
			msg.Department = dept.Name()
		}
	}
	if l := i.Location(); l != nil {
		msg.Location = *l
	}

	if err := h.notifier.SendEscalation(ctx, msg); err != nil {
		h.logger.Errorw("failed to send escalation email", "issue_id", i.ID(), "error", err)
		return err
	}
	h.logger.Infow("escalation email sent", "issue_id", i.ID(), "severity", i.Severity())
	return nil
}

// handleStatusChanged mails named reporters only; anonymous ones follow
// progress through their token.
func (h *IssueEventHandler) handleStatusChanged(ctx context.Context, event events.DomainEvent) error {
	e, ok := event.(issue.IssueStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	if e.ReporterID == nil {
		return nil
	}

	reporter, err := h.profileRepo.GetByID(ctx, *e.ReporterID)
	if err != nil {
		return fmt.Errorf("load reporter: %w", err)
	}
	if reporter == nil || reporter.Email() == "" {
		return nil
	}

	err = h.notifier.SendStatusChanged(ctx, reporter.Email(), email.StatusChangedMessage{
		IssueID:   e.AggregateID,
		Title:     e.Title,
		OldStatus: e.OldStatus.String(),
		NewStatus: e.NewStatus.String(),
	})
	if err != nil {
		h.logger.Errorw("failed to send status email", "issue_id", e.AggregateID, "error", err)
		return err
	}
	return nil
}
