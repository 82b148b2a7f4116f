package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/pkg/logger"
)

// PaymentEvent is the gateway's webhook body. ExternalReference carries our
// order id; Payment.ID is the provider-side charge id.
type PaymentEvent struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payment struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		ExternalReference string `json:"externalReference"`
	} `json:"payment"`
}

const providerAsaas = "asaas"

var ErrUnknownOrder = errors.New("webhook references unknown order")

type WebhookService interface {
	// Process applies one gateway event. Errors are recorded on the stored
	// event and reported, but the HTTP handler acknowledges regardless: the
	// provider contract wants a 200 to stop retry storms.
	Process(ctx context.Context, raw []byte) error
}

type webhookService struct {
	orders    repository.OrderRepository
	events    repository.WebhookEventRepository
	fulfiller *Fulfiller
}

func NewWebhookService(orders repository.OrderRepository, events repository.WebhookEventRepository, fulfiller *Fulfiller) WebhookService {
	return &webhookService{orders: orders, events: events, fulfiller: fulfiller}
}

func (s *webhookService) Process(ctx context.Context, raw []byte) error {
	var ev PaymentEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return s.reject(nil, fmt.Errorf("decode webhook: %w", err))
	}

	record := &model.WebhookEvent{
		Provider:        providerAsaas,
		ProviderEventID: ev.ID,
		EventType:       ev.Event,
		OrderID:         ev.Payment.ExternalReference,
		Payload:         string(raw),
	}
	if ev.ID != "" {
		if err := s.events.Record(ctx, record); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// Provider retry of an event we already stored.
				logger.Info("webhook: duplicate event skipped",
					zap.String("event_id", ev.ID))
				return nil
			}
			return s.reject(nil, err)
		}
	}

	if err := s.apply(ctx, ev); err != nil {
		if record.ID != "" {
			_ = s.events.RecordError(ctx, record.ID, err)
		}
		return s.reject(record, err)
	}
	if record.ID != "" {
		_ = s.events.MarkProcessed(ctx, record.ID)
	}
	return nil
}

func (s *webhookService) apply(ctx context.Context, ev PaymentEvent) error {
	order, err := s.resolveOrder(ctx, ev)
	if err != nil {
		return err
	}

	switch ev.Event {
	case "PAYMENT_RECEIVED", "PAYMENT_CONFIRMED":
		if order.PaymentStatus == model.PaymentConfirmed {
			// Replay after the payment settled. A failure between the status
			// update and the grants can leave a paid order without its
			// entitlements, so re-run the grants; they are idempotent.
			return s.fulfiller.grant(ctx, order)
		}
		return s.fulfiller.Confirm(ctx, order)

	case "PAYMENT_REFUNDED":
		return s.transition(ctx, order, model.PaymentRefunded, model.OrderCanceled)

	case "PAYMENT_OVERDUE", "PAYMENT_FAILED", "PAYMENT_DELETED", "PAYMENT_CANCELED":
		return s.transition(ctx, order, model.PaymentCanceled, model.OrderCanceled)

	default:
		logger.Info("webhook: ignoring event",
			zap.String("event", ev.Event), zap.String("order_id", order.ID))
		return nil
	}
}

func (s *webhookService) transition(ctx context.Context, order *model.Order, ps model.PaymentStatus, os model.OrderStatus) error {
	if !order.PaymentStatus.CanTransition(ps) {
		return fmt.Errorf("illegal payment transition %s -> %s for order %s",
			order.PaymentStatus, ps, order.ID)
	}
	return s.orders.UpdatePayment(ctx, order.ID, ps, os, nil)
}

func (s *webhookService) resolveOrder(ctx context.Context, ev PaymentEvent) (*model.Order, error) {
	if ref := ev.Payment.ExternalReference; ref != "" {
		o, err := s.orders.GetByID(ctx, ref)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if ev.Payment.ID != "" {
		o, err := s.orders.GetByChargeID(ctx, ev.Payment.ID)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrUnknownOrder
}

// reject logs and reports the failure; the caller still answers 200, so this
// is the only alerting path for dropped webhook work.
func (s *webhookService) reject(record *model.WebhookEvent, err error) error {
	fields := []zap.Field{zap.Error(err)}
	if record != nil {
		fields = append(fields, zap.String("event_id", record.ProviderEventID), zap.String("order_id", record.OrderID))
	}
	logger.Error("webhook: processing failed", fields...)
	sentry.WithScope(func(scope *sentry.Scope) {
		if record != nil {
			scope.SetTag("provider_event_id", record.ProviderEventID)
			scope.SetTag("order_id", record.OrderID)
		}
		sentry.CaptureException(err)
	})
	return err
}
