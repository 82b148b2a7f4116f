package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func newNewsletterService(t *testing.T) (NewsletterService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewNewsletterService(repository.NewNewsletterRepository(env.db)), env
}

func TestResubscribeReactivates(t *testing.T) {
	svc, env := newNewsletterService(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, "ana@example.com", "Ana"))
	require.NoError(t, svc.Unsubscribe(ctx, "ana@example.com"))
	require.NoError(t, svc.Subscribe(ctx, "ana@example.com", "Ana"))

	var sub model.NewsletterSubscriber
	require.NoError(t, env.db.First(&sub, "email = ?", "ana@example.com").Error)
	assert.True(t, sub.Active)
	assert.Nil(t, sub.UnsubscribedAt)

	var count int64
	require.NoError(t, env.db.Model(&model.NewsletterSubscriber{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "re-subscribing must not duplicate the address")
}

func TestUnsubscribeUnknownEmail(t *testing.T) {
	svc, _ := newNewsletterService(t)
	err := svc.Unsubscribe(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCampaignFansOutToActiveSubscribers(t *testing.T) {
	svc, env := newNewsletterService(t)
	ctx := context.Background()
	seedUser(t, env.db, "admin", model.RoleAdmin)

	require.NoError(t, svc.Subscribe(ctx, "ana@example.com", "Ana"))
	require.NoError(t, svc.Subscribe(ctx, "bia@example.com", "Bia"))
	require.NoError(t, svc.Subscribe(ctx, "leo@example.com", "Leo"))
	require.NoError(t, svc.Unsubscribe(ctx, "leo@example.com"))

	c, err := svc.SendCampaign(ctx, "admin", "New ENEM papers", "Fresh material this week.")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Recipients)

	var queued []model.EmailOutbox
	require.NoError(t, env.db.Where("kind = ?", "newsletter").Find(&queued).Error)
	require.Len(t, queued, 2)
	for _, e := range queued {
		assert.Equal(t, model.OutboxPending, e.Status)
		assert.Equal(t, c.ID, e.RefID)
		assert.NotEqual(t, "leo@example.com", e.Recipient)
	}
}
