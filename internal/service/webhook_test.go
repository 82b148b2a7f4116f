package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
)

func seedPendingOrder(t *testing.T, env *testEnv, userID string, items ...model.OrderItem) *model.Order {
	t.Helper()
	var total int64
	for _, it := range items {
		total += it.PriceCents
	}
	o := &model.Order{
		UserID:        userID,
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: model.MethodPix,
		TotalCents:    total,
		ChargeID:      "chg_" + userID,
		Items:         items,
	}
	require.NoError(t, env.orders.Create(context.Background(), o))
	return o
}

func paymentEvent(eventID, event, orderID, chargeID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"event":%q,"payment":{"id":%q,"status":"x","externalReference":%q}}`,
		eventID, event, chargeID, orderID))
}

func TestWebhookConfirmedCompletesOrderAndGrants(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	seedEbook(t, env.db, "e1", 2990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990},
		model.OrderItem{Kind: model.ProductEbook, ProductID: "e1", Title: "Ebook", PriceCents: 2990},
	)
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	err := svc.Process(context.Background(), paymentEvent("evt_1", "PAYMENT_CONFIRMED", order.ID, order.ChargeID))
	require.NoError(t, err)

	// Payment CONFIRMED always pairs with order COMPLETED.
	got, err := env.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentConfirmed, got.PaymentStatus)
	assert.Equal(t, model.OrderCompleted, got.Status)
	assert.NotNil(t, got.PaidAt)

	enrolled, err := env.entitlements.IsEnrolled(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, enrolled)
	hasEbook, err := env.entitlements.HasLibraryItem(context.Background(), "u1", model.ProductEbook, "e1")
	require.NoError(t, err)
	assert.True(t, hasEbook)

	// Confirmation email queued for the buyer.
	pending, err := env.outbox.CountPending(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990})
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	payload := paymentEvent("evt_1", "PAYMENT_CONFIRMED", order.ID, order.ChargeID)
	require.NoError(t, svc.Process(context.Background(), payload))

	// Same event id again: deduplicated by the stored event.
	require.NoError(t, svc.Process(context.Background(), payload))

	// Fresh event id for an already confirmed order: re-runs the grants,
	// which are idempotent.
	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_2", "PAYMENT_RECEIVED", order.ID, order.ChargeID)))

	var enrollments int64
	require.NoError(t, env.db.Model(&model.CourseEnrollment{}).Count(&enrollments).Error)
	assert.EqualValues(t, 1, enrollments)

	pending, err := env.outbox.CountPending(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending, "only one confirmation email")
}

func TestWebhookUnknownOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	err := svc.Process(context.Background(),
		paymentEvent("evt_9", "PAYMENT_CONFIRMED", "missing-order", "missing-charge"))
	assert.ErrorIs(t, err, ErrUnknownOrder)

	// The delivery stays recorded with its failure for later inspection.
	unprocessed, uErr := env.events.ListUnprocessed(context.Background(), 10)
	require.NoError(t, uErr)
	require.Len(t, unprocessed, 1)
	assert.Contains(t, unprocessed[0].ProcessingError, "unknown order")
}

func TestWebhookResolvesOrderByChargeID(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990})
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	// No external reference, only the charge id.
	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_1", "PAYMENT_CONFIRMED", "", order.ChargeID)))

	got, err := env.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentConfirmed, got.PaymentStatus)
}

func TestWebhookRefundCancelsOrder(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990})
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_1", "PAYMENT_CONFIRMED", order.ID, order.ChargeID)))
	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_2", "PAYMENT_REFUNDED", order.ID, order.ChargeID)))

	got, err := env.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, got.PaymentStatus)
	assert.Equal(t, model.OrderCanceled, got.Status)
}

func TestWebhookOverdueCancels(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990})
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_1", "PAYMENT_OVERDUE", order.ID, order.ChargeID)))

	got, err := env.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCanceled, got.PaymentStatus)
	assert.Equal(t, model.OrderCanceled, got.Status)
}

func TestWebhookIgnoresUnknownEventType(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)
	order := seedPendingOrder(t, env, "u1",
		model.OrderItem{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990})
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_1", "PAYMENT_UPDATED", order.ID, order.ChargeID)))

	got, err := env.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, got.PaymentStatus)
}

func TestWebhookReplayHealsMissingGrants(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env.db, "u1", model.RoleStudent)
	seedCourse(t, env.db, "c1", 14990)

	// An order that settled but lost its enrollment grant mid-flight, as a
	// crash between the payment update and the grant would leave it.
	o := &model.Order{
		UserID:        "u1",
		Status:        model.OrderCompleted,
		PaymentStatus: model.PaymentConfirmed,
		PaymentMethod: model.MethodPix,
		TotalCents:    14990,
		ChargeID:      "chg_u1",
		Items: []model.OrderItem{
			{Kind: model.ProductCourse, ProductID: "c1", Title: "Course", PriceCents: 14990},
		},
	}
	require.NoError(t, env.orders.Create(context.Background(), o))
	svc := NewWebhookService(env.orders, env.events, env.fulfiller)

	enrolled, err := env.entitlements.IsEnrolled(context.Background(), "u1", "c1")
	require.NoError(t, err)
	require.False(t, enrolled)

	require.NoError(t, svc.Process(context.Background(),
		paymentEvent("evt_retry", "PAYMENT_RECEIVED", o.ID, o.ChargeID)))

	enrolled, err = env.entitlements.IsEnrolled(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.True(t, enrolled, "a provider retry must restore the missing grant")
}
