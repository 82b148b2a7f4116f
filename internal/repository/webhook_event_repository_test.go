package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
)

func TestWebhookEventDuplicateDelivery(t *testing.T) {
	db := setupDB(t)
	repo := NewWebhookEventRepository(db)
	ctx := context.Background()

	first := &model.WebhookEvent{Provider: "asaas", ProviderEventID: "evt_1", EventType: "PAYMENT_CONFIRMED", Payload: "{}"}
	require.NoError(t, repo.Record(ctx, first))

	replay := &model.WebhookEvent{Provider: "asaas", ProviderEventID: "evt_1", EventType: "PAYMENT_CONFIRMED", Payload: "{}"}
	err := repo.Record(ctx, replay)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same event id from a different provider is a distinct event.
	other := &model.WebhookEvent{Provider: "stripe", ProviderEventID: "evt_1", EventType: "x", Payload: "{}"}
	assert.NoError(t, repo.Record(ctx, other))
}

func TestWebhookEventErrorTrail(t *testing.T) {
	db := setupDB(t)
	repo := NewWebhookEventRepository(db)
	ctx := context.Background()

	e := &model.WebhookEvent{Provider: "asaas", ProviderEventID: "evt_2", EventType: "PAYMENT_CONFIRMED", Payload: "{}"}
	require.NoError(t, repo.Record(ctx, e))
	require.NoError(t, repo.RecordError(ctx, e.ID, errors.New("order missing")))

	unprocessed, err := repo.ListUnprocessed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, unprocessed, 1)
	assert.Equal(t, "order missing", unprocessed[0].ProcessingError)

	require.NoError(t, repo.MarkProcessed(ctx, e.ID))
	unprocessed, err = repo.ListUnprocessed(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, unprocessed)
}

func TestEntitlementGrantsAreIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewEntitlementRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateEnrollment(ctx, "u1", "c1", "o1"))
	require.NoError(t, repo.CreateEnrollment(ctx, "u1", "c1", "o2"), "replay must not error")

	var cnt int64
	require.NoError(t, db.Model(&model.CourseEnrollment{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, repo.CreateLibraryItem(ctx, "u1", model.ProductEbook, "e1", "o1"))
	require.NoError(t, repo.CreateLibraryItem(ctx, "u1", model.ProductEbook, "e1", "o1"))
	has, err := repo.HasLibraryItem(ctx, "u1", model.ProductEbook, "e1")
	require.NoError(t, err)
	assert.True(t, has)
}
