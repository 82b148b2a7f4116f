package service

import (
	"context"

	"github.com/studahub/backend/internal/repository"
)

// Stats is the admin dashboard snapshot.
type Stats struct {
	Users          int64                    `json:"users"`
	RevenueCents   int64                    `json:"revenue_cents"`
	OrdersByStatus []repository.StatusCount `json:"orders_by_status"`
	UnreadMessages int64                    `json:"unread_messages"`
	Subscribers    int64                    `json:"subscribers"`
	PendingEmails  int64                    `json:"pending_emails"`
}

type StatsService interface {
	Snapshot(ctx context.Context) (*Stats, error)
}

type statsService struct {
	users      repository.UserRepository
	orders     repository.OrderRepository
	messages   repository.MessageRepository
	newsletter repository.NewsletterRepository
	outbox     repository.OutboxRepository
}

func NewStatsService(users repository.UserRepository, orders repository.OrderRepository, messages repository.MessageRepository, newsletter repository.NewsletterRepository, outbox repository.OutboxRepository) StatsService {
	return &statsService{users: users, orders: orders, messages: messages, newsletter: newsletter, outbox: outbox}
}

func (s *statsService) Snapshot(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.RevenueCents, err = s.orders.ConfirmedRevenueCents(ctx); err != nil {
		return nil, err
	}
	if st.OrdersByStatus, err = s.orders.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if st.UnreadMessages, err = s.messages.CountUnread(ctx); err != nil {
		return nil, err
	}
	if st.Subscribers, err = s.newsletter.CountActive(ctx); err != nil {
		return nil, err
	}
	if st.PendingEmails, err = s.outbox.CountPending(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
