package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/pkg/logger"
)

// Fulfiller confirms paid orders: it pairs the CONFIRMED payment status with
// the COMPLETED order status (never one without the other) and grants the
// entitlements the order's items carry. Both the synchronous card flow and
// the webhook path go through here, and replays are harmless because every
// grant is idempotent.
type Fulfiller struct {
	orders       repository.OrderRepository
	entitlements repository.EntitlementRepository
	users        repository.UserRepository
	outbox       repository.OutboxRepository
}

func NewFulfiller(orders repository.OrderRepository, entitlements repository.EntitlementRepository, users repository.UserRepository, outbox repository.OutboxRepository) *Fulfiller {
	return &Fulfiller{orders: orders, entitlements: entitlements, users: users, outbox: outbox}
}

// Confirm marks the order paid and grants entitlements.
func (f *Fulfiller) Confirm(ctx context.Context, order *model.Order) error {
	if !order.PaymentStatus.CanTransition(model.PaymentConfirmed) {
		return fmt.Errorf("payment status %s cannot move to CONFIRMED", order.PaymentStatus)
	}
	now := time.Now()
	if err := f.orders.UpdatePayment(ctx, order.ID, model.PaymentConfirmed, model.OrderCompleted, &now); err != nil {
		return err
	}
	order.PaymentStatus = model.PaymentConfirmed
	order.Status = model.OrderCompleted

	if err := f.grant(ctx, order); err != nil {
		return err
	}
	f.notifyConfirmed(ctx, order)
	return nil
}

func (f *Fulfiller) grant(ctx context.Context, order *model.Order) error {
	for _, item := range order.Items {
		switch item.Kind {
		case model.ProductCourse:
			if err := f.entitlements.CreateEnrollment(ctx, order.UserID, item.ProductID, order.ID); err != nil {
				return err
			}
		case model.ProductEbook, model.ProductPaper:
			if err := f.entitlements.CreateLibraryItem(ctx, order.UserID, item.Kind, item.ProductID, order.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// notifyConfirmed enqueues the confirmation email. Failures only log: the
// payment is already settled and the outbox is advisory here.
func (f *Fulfiller) notifyConfirmed(ctx context.Context, order *model.Order) {
	u, err := f.users.GetByID(ctx, order.UserID)
	if err != nil {
		logger.Warn("fulfillment: load user for email failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	err = f.outbox.Enqueue(ctx, &model.EmailOutbox{
		Recipient: u.Email,
		Subject:   "Payment confirmed",
		Body:      fmt.Sprintf("Hi %s, your order %s is confirmed. Your items are available in your library.", u.Name, order.ID),
		Kind:      "order_confirmed",
		RefID:     order.ID,
	})
	if err != nil {
		logger.Warn("fulfillment: enqueue confirmation email failed",
			zap.String("order_id", order.ID), zap.Error(err))
	}
}
