package service

import (
	"context"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

type NewsletterService interface {
	Subscribe(ctx context.Context, email, name string) error
	Unsubscribe(ctx context.Context, email string) error
	SendCampaign(ctx context.Context, adminID, subject, body string) (*model.NewsletterCampaign, error)
}

type newsletterService struct {
	repo repository.NewsletterRepository
}

func NewNewsletterService(repo repository.NewsletterRepository) NewsletterService {
	return &newsletterService{repo: repo}
}

func (s *newsletterService) Subscribe(ctx context.Context, email, name string) error {
	return s.repo.Subscribe(ctx, email, name)
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	return s.repo.Unsubscribe(ctx, email)
}

// SendCampaign enqueues one outbox row per active subscriber; the outbox
// worker does the actual delivery asynchronously.
func (s *newsletterService) SendCampaign(ctx context.Context, adminID, subject, body string) (*model.NewsletterCampaign, error) {
	c := &model.NewsletterCampaign{Subject: subject, Body: body, CreatedBy: adminID}
	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
