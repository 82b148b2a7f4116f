package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

func TestOutboxClaimMarksProcessing(t *testing.T) {
	db := setupDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Enqueue(ctx, &model.EmailOutbox{
			Recipient: "user@example.com", Subject: "hello", Body: "body", Kind: "test",
		}))
	}

	batch, err := repo.Claim(ctx, 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	// Claimed rows are no longer visible to the next claim.
	rest, err := repo.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, pending)
}

func TestOutboxMarkSent(t *testing.T) {
	db := setupDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	e := &model.EmailOutbox{Recipient: "a@b.c", Subject: "s", Body: "b"}
	require.NoError(t, repo.Enqueue(ctx, e))
	_, err := repo.Claim(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, repo.MarkSent(ctx, e.ID))

	var got model.EmailOutbox
	require.NoError(t, db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, model.OutboxSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.NotNil(t, got.ProcessedAt)
}

func TestOutboxMarkFailedRetriesThenParks(t *testing.T) {
	db := setupDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	e := &model.EmailOutbox{Recipient: "a@b.c", Subject: "s", Body: "b"}
	require.NoError(t, repo.Enqueue(ctx, e))
	cause := errors.New("smtp refused")

	// First two failures go back to pending for another poll.
	for i := 1; i <= 2; i++ {
		require.NoError(t, repo.MarkFailed(ctx, e.ID, cause, 3))
		var got model.EmailOutbox
		require.NoError(t, db.First(&got, "id = ?", e.ID).Error)
		assert.Equal(t, model.OutboxPending, got.Status, "attempt %d", i)
		assert.Equal(t, i, got.Attempts)
	}

	// Third failure reaches maxAttempts and parks the row.
	require.NoError(t, repo.MarkFailed(ctx, e.ID, cause, 3))
	var got model.EmailOutbox
	require.NoError(t, db.First(&got, "id = ?", e.ID).Error)
	assert.Equal(t, model.OutboxFailed, got.Status)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, "smtp refused", got.LastError)
}

// Emulates a rival worker winning rows between the claim's select and its
// guarded update, the interleaving postgres allows under READ COMMITTED.
func TestOutboxClaimNeverAdoptsRivalRows(t *testing.T) {
	db := setupDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	rows := make([]*model.EmailOutbox, 3)
	for i := range rows {
		rows[i] = &model.EmailOutbox{
			Recipient: "user@example.com", Subject: "hello", Body: "body", Kind: "test",
		}
		require.NoError(t, repo.Enqueue(ctx, rows[i]))
	}
	victim := rows[0].ID

	stolen := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("steal_row", func(tx *gorm.DB) {
		if stolen || tx.Statement.Table != "email_outbox" {
			return
		}
		stolen = true
		_, err := tx.Statement.ConnPool.ExecContext(context.Background(),
			"UPDATE email_outbox SET status = ?, claim_token = ? WHERE id = ?",
			string(model.OutboxProcessing), "rival-claim", victim)
		require.NoError(t, err)
	}))
	t.Cleanup(func() { _ = db.Callback().Query().Remove("steal_row") })

	claimed, err := repo.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 2, "the stolen row belongs to the rival")
	for _, e := range claimed {
		assert.NotEqual(t, victim, e.ID)
	}

	var stored model.EmailOutbox
	require.NoError(t, db.First(&stored, "id = ?", victim).Error)
	assert.Equal(t, "rival-claim", stored.ClaimToken)
	assert.Equal(t, model.OutboxProcessing, stored.Status)
}
