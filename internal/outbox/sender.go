package outbox

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/pkg/logger"
)

// Sender delivers one queued email. The provider behind it is deliberately
// thin; delivery infrastructure is someone else's problem.
type Sender interface {
	Send(ctx context.Context, e *model.EmailOutbox) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
	Auth smtp.Auth
}

func (s *SMTPSender) Send(_ context.Context, e *model.EmailOutbox) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.From, e.Recipient, e.Subject, e.Body)
	return smtp.SendMail(s.Addr, s.Auth, s.From, []string{e.Recipient}, []byte(msg))
}

// LogSender is the development sink: it only logs, never delivers.
type LogSender struct{}

func (LogSender) Send(_ context.Context, e *model.EmailOutbox) error {
	logger.Info("email (log sink)",
		zap.String("to", e.Recipient),
		zap.String("subject", e.Subject),
		zap.String("kind", e.Kind))
	return nil
}
