package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/candor-hq/candor/internal/shared/config"
	"github.com/candor-hq/candor/internal/shared/logger"
	"github.com/candor-hq/candor/internal/shared/services/markdown"
)

type capture struct {
	messages []*gomail.Message
	err      error
}

func (c *capture) send(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func newTestService(t *testing.T, recipients []string) (*SMTPEmailService, *capture) {
	t.Helper()
	cfg := &config.EmailConfig{
		Enabled:              true,
		FromAddress:          "noreply@candor.local",
		FromName:             "Candor",
		EscalationRecipients: recipients,
	}
	svc := NewSMTPEmailService(cfg, "https://candor.example.com/", markdown.NewRenderer(), logger.NewNopLogger())
	c := &capture{}
	svc.send = c.send
	return svc, c
}

func raw(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendEscalation(t *testing.T) {
	svc, c := newTestService(t, []string{"hr@example.com", "safety@example.com"})

	err := svc.SendEscalation(context.Background(), EscalationMessage{
		IssueID:     "issue-1",
		Title:       "Exposed wiring <near> stairs",
		Description: "Cables hanging **loose** by stairwell B.",
		Severity:    "critical",
		Category:    "Safety",
	})
	require.NoError(t, err)
	require.Len(t, c.messages, 1)

	m := c.messages[0]
	assert.Equal(t, []string{"hr@example.com", "safety@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"[CRITICAL] New issue: Exposed wiring <near> stairs"}, m.GetHeader("Subject"))

	body := raw(t, m)
	assert.Contains(t, body, "https://candor.example.com/issues/issue-1")
	assert.Contains(t, body, "Unassigned")
	assert.Contains(t, body, "&lt;near&gt;")
}

func TestSendEscalation_NoRecipients(t *testing.T) {
	svc, c := newTestService(t, nil)
	require.NoError(t, svc.SendEscalation(context.Background(), EscalationMessage{IssueID: "issue-1"}))
	assert.Empty(t, c.messages)
}

func TestSendStatusChanged(t *testing.T) {
	svc, c := newTestService(t, nil)

	err := svc.SendStatusChanged(context.Background(), "dana@example.com", StatusChangedMessage{
		IssueID:   "issue-1",
		Title:     "Broken light in lobby",
		OldStatus: "open",
		NewStatus: "in_progress",
	})
	require.NoError(t, err)
	require.Len(t, c.messages, 1)
	assert.Equal(t, []string{"dana@example.com"}, c.messages[0].GetHeader("To"))
	assert.Equal(t, []string{"Your report is now in progress"}, c.messages[0].GetHeader("Subject"))
}

func TestSendEmail_Errors(t *testing.T) {
	svc, c := newTestService(t, []string{"hr@example.com"})
	c.err = errors.New("smtp down")

	err := svc.SendStatusChanged(context.Background(), "dana@example.com", StatusChangedMessage{NewStatus: "closed"})
	assert.ErrorContains(t, err, "smtp down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svc.SendStatusChanged(ctx, "dana@example.com", StatusChangedMessage{NewStatus: "closed"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoopNotifier(t *testing.T) {
	n := NewNoopNotifier(logger.NewNopLogger())
	assert.NoError(t, n.SendEscalation(context.Background(), EscalationMessage{}))
	assert.NoError(t, n.SendStatusChanged(context.Background(), "x@example.com", StatusChangedMessage{}))
}
