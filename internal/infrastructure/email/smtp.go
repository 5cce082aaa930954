package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/candor-hq/candor/internal/shared/config"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

// EscalationMessage describes a newly submitted high-severity issue. It has
// no field for the reporter or the tracking token.
type EscalationMessage struct {
	IssueID     string
	Title       string
	Description string
	Severity    string
	Category    string
	Department  string
	Location    string
}

// StatusChangedMessage goes to identified reporters when staff move their
// issue.
type StatusChangedMessage struct {
	IssueID   string
	Title     string
	OldStatus string
	NewStatus string
}

// Notifier sends issue notifications.
type Notifier interface {
	SendEscalation(ctx context.Context, msg EscalationMessage) error
	SendStatusChanged(ctx context.Context, to string, msg StatusChangedMessage) error
}

type SMTPEmailService struct {
	config       *config.EmailConfig
	dashboardURL string
	renderer     markdown.Renderer
	send         func(m ...*gomail.Message) error
	logger       logger.Interface
}

func NewSMTPEmailService(cfg *config.EmailConfig, dashboardURL string, renderer markdown.Renderer, log logger.Interface) *SMTPEmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	return &SMTPEmailService{
		config:       cfg,
		dashboardURL: strings.TrimRight(dashboardURL, "/"),
		renderer:     renderer,
		send:         dialer.DialAndSend,
		logger:       log,
	}
}

func (s *SMTPEmailService) issueURL(issueID string) string {
	return fmt.Sprintf("%s/issues/%s", s.dashboardURL, issueID)
}

func (s *SMTPEmailService) SendEscalation(ctx context.Context, msg EscalationMessage) error {
	if len(s.config.EscalationRecipients) == 0 {
		s.logger.Debugw("no escalation recipients configured", "issue_id", msg.IssueID)
		return nil
	}

	descriptionHTML, err := s.renderer.Render(msg.Description)
	if err != nil {
		return fmt.Errorf("failed to render description: %w", err)
	}

	department := msg.Department
	if department == "" {
		department = "Unassigned"
	}
	link := s.issueURL(msg.IssueID)

	subject := fmt.Sprintf("[%s] New issue: %s", strings.ToUpper(msg.Severity), msg.Title)

	var extra strings.Builder
	if msg.Location != "" {
		fmt.Fprintf(&extra, "<tr><td><strong>Location</strong></td><td>%s</td></tr>", html.EscapeString(msg.Location))
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>%s</h2>
			<table>
				<tr><td><strong>Severity</strong></td><td>%s</td></tr>
				<tr><td><strong>Category</strong></td><td>%s</td></tr>
				<tr><td><strong>Department</strong></td><td>%s</td></tr>
				%s
			</table>
			<div>%s</div>
			<p><a href="%s">Open in dashboard</a></p>
		</body>
		</html>
	`, html.EscapeString(msg.Title), html.EscapeString(msg.Severity), html.EscapeString(msg.Category),
		html.EscapeString(department), extra.String(), descriptionHTML, link)

	plainBody := fmt.Sprintf(`
%s

Severity:   %s
Category:   %s
Department: %s

%s

Open in dashboard: %s
	`, msg.Title, msg.Severity, msg.Category, department, msg.Description, link)

	return s.sendEmail(ctx, s.config.EscalationRecipients, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendStatusChanged(ctx context.Context, to string, msg StatusChangedMessage) error {
	subject := fmt.Sprintf("Your report is now %s", humanStatus(msg.NewStatus))

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Status update</h2>
			<p>Your report <strong>%s</strong> moved from %s to <strong>%s</strong>.</p>
		</body>
		</html>
	`, html.EscapeString(msg.Title), humanStatus(msg.OldStatus), humanStatus(msg.NewStatus))

	plainBody := fmt.Sprintf(`
Status update

Your report "%s" moved from %s to %s.
	`, msg.Title, humanStatus(msg.OldStatus), humanStatus(msg.NewStatus))

	return s.sendEmail(ctx, []string{to}, subject, htmlBody, plainBody)
}

func humanStatus(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func (s *SMTPEmailService) sendEmail(ctx context.Context, to []string, subject, htmlBody, plainBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infow("email sent", "subject", subject, "recipients", len(to))
	return nil
}

// NoopNotifier is used when e-mail is disabled.
type NoopNotifier struct {
	logger logger.Interface
}

func NewNoopNotifier(log logger.Interface) *NoopNotifier {
	return &NoopNotifier{logger: log}
}

func (n *NoopNotifier) SendEscalation(_ context.Context, msg EscalationMessage) error {
	n.logger.Debugw("email disabled, skipping escalation", "issue_id", msg.IssueID)
	return nil
}

func (n *NoopNotifier) SendStatusChanged(_ context.Context, _ string, msg StatusChangedMessage) error {
	n.logger.Debugw("email disabled, skipping status notice", "issue_id", msg.IssueID)
	return nil
}
