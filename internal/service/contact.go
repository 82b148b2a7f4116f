package service

import (
	"context"
	"errors"
	"strings"

	"github.com/studahub/backend/internal/antispam"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

var (
	// ErrSpamBlocked maps to 429; ErrCaptchaRequired to 400 with
	// requiresCaptcha set, per the contact endpoint contract.
	ErrSpamBlocked     = errors.New("submission blocked")
	ErrCaptchaRequired = errors.New("captcha required")
)

type ContactInput struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	IP        string
	UserAgent string
	Honeypot  string
}

type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*model.ContactMessage, error)
	List(ctx context.Context, status model.MessageStatus, page, pageSize int) ([]*model.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Reply(ctx context.Context, id, content, staffID string) error
}

type contactService struct {
	messages repository.MessageRepository
	scorer   *antispam.Scorer
	outbox   repository.OutboxRepository

	adminEmail string
}

func NewContactService(messages repository.MessageRepository, scorer *antispam.Scorer, outbox repository.OutboxRepository, adminEmail string) ContactService {
	return &contactService{messages: messages, scorer: scorer, outbox: outbox, adminEmail: adminEmail}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	res, err := s.scorer.Score(ctx, antispam.Submission{
		Name:      in.Name,
		Email:     in.Email,
		Message:   in.Message,
		IP:        in.IP,
		UserAgent: in.UserAgent,
		Honeypot:  in.Honeypot,
	})
	if err != nil {
		return nil, err
	}
	switch res.Action {
	case antispam.ActionBlock:
		return nil, ErrSpamBlocked
	case antispam.ActionChallenge:
		return nil, ErrCaptchaRequired
	}

	m := &model.ContactMessage{
		Name:     in.Name,
		Email:    in.Email,
		Subject:  in.Subject,
		Content:  in.Message,
		IP:       in.IP,
		Status:   model.MessageUnread,
		Priority: priorityFor(in),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.adminEmail != "" {
		_ = s.outbox.Enqueue(ctx, &model.EmailOutbox{
			Recipient: s.adminEmail,
			Subject:   "New contact message: " + in.Subject,
			Body:      in.Message,
			Kind:      "contact_received",
			RefID:     m.ID,
		})
	}
	return m, nil
}

// priorityFor bumps messages that mention payment trouble; everything else
// lands at NORMAL.
func priorityFor(in ContactInput) model.MessagePriority {
	lower := strings.ToLower(in.Subject + " " + in.Message)
	for _, k := range []string{"pagamento", "payment", "cobrança", "refund", "reembolso", "chargeback"} {
		if strings.Contains(lower, k) {
			return model.PriorityHigh
		}
	}
	return model.PriorityNormal
}

func (s *contactService) List(ctx context.Context, status model.MessageStatus, page, pageSize int) ([]*model.ContactMessage, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.messages.List(ctx, status, offset, limit)
}

func (s *contactService) MarkRead(ctx context.Context, id string) error {
	return s.messages.UpdateStatus(ctx, id, model.MessageRead)
}

func (s *contactService) Archive(ctx context.Context, id string) error {
	return s.messages.UpdateStatus(ctx, id, model.MessageArchived)
}

// Reply records the staff answer and emails the original sender.
func (s *contactService) Reply(ctx context.Context, id, content, staffID string) error {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.messages.Reply(ctx, id, content, staffID); err != nil {
		return err
	}
	return s.outbox.Enqueue(ctx, &model.EmailOutbox{
		Recipient: m.Email,
		Subject:   "Re: " + m.Subject,
		Body:      content,
		Kind:      "contact_reply",
		RefID:     m.ID,
	})
}
