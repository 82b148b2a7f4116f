package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

func TestSnapshotCountsOnlyConfirmedRevenue(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStatsService(env.users, env.orders,
		repository.NewMessageRepository(env.db),
		repository.NewNewsletterRepository(env.db),
		env.outbox)

	seedUser(t, env.db, "u1", model.RoleStudent)
	seedUser(t, env.db, "u2", model.RoleStudent)

	ctx := context.Background()
	require.NoError(t, env.orders.Create(ctx, &model.Order{
		UserID: "u1", TotalCents: 5000,
		Status: model.OrderCompleted, PaymentStatus: model.PaymentConfirmed,
		PaymentMethod: model.MethodPix,
	}))
	require.NoError(t, env.orders.Create(ctx, &model.Order{
		UserID: "u2", TotalCents: 9000,
		Status: model.OrderPending, PaymentStatus: model.PaymentPending,
		PaymentMethod: model.MethodBoleto,
	}))

	st, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Users)
	assert.EqualValues(t, 5000, st.RevenueCents, "pending orders are not revenue")

	byStatus := map[model.OrderStatus]int64{}
	for _, b := range st.OrdersByStatus {
		byStatus[b.Status] = b.Count
	}
	assert.EqualValues(t, 1, byStatus[model.OrderCompleted])
	assert.EqualValues(t, 1, byStatus[model.OrderPending])
}

func TestSnapshotEmptyDatabase(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStatsService(env.users, env.orders,
		repository.NewMessageRepository(env.db),
		repository.NewNewsletterRepository(env.db),
		env.outbox)

	st, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.Users)
	assert.EqualValues(t, 0, st.RevenueCents)
	assert.EqualValues(t, 0, st.UnreadMessages)
	assert.EqualValues(t, 0, st.Subscribers)
	assert.EqualValues(t, 0, st.PendingEmails)
}
