package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studahub/backend/internal/model"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, e *model.EmailOutbox) error

	// Claim moves up to limit pending rows to processing and returns them.
	// The status guard on the UPDATE keeps concurrent workers from claiming
	// the same row twice.
	Claim(ctx context.Context, limit int) ([]*model.EmailOutbox, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error, maxAttempts int) error
	CountPending(ctx context.Context) (int64, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepository{db: db} }

func (r *outboxRepository) Enqueue(ctx context.Context, e *model.EmailOutbox) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = model.OutboxPending
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *outboxRepository) Claim(ctx context.Context, limit int) ([]*model.EmailOutbox, error) {
	token := uuid.New().String()
	var claimed []*model.EmailOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("status = ?", model.OutboxPending).
			Order("created_at").Limit(limit)
		if tx.Dialector.Name() == "postgres" {
			// Concurrent workers skip each other's locked rows instead of
			// blocking and then adopting them after commit.
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		var batch []*model.EmailOutbox
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		res := tx.Model(&model.EmailOutbox{}).
			Where("id IN ? AND status = ?", ids, model.OutboxPending).
			Updates(map[string]any{"status": model.OutboxProcessing, "claim_token": token})
		if res.Error != nil {
			return res.Error
		}
		// Another worker won some of the rows between the select and the
		// guarded update; keep only the rows stamped with this call's token.
		if res.RowsAffected != int64(len(batch)) {
			var ours []*model.EmailOutbox
			if err := tx.Where("claim_token = ? AND status = ?", token, model.OutboxProcessing).Find(&ours).Error; err != nil {
				return err
			}
			claimed = ours
			return nil
		}
		claimed = batch
		return nil
	})
	return claimed, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.EmailOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       model.OutboxSent,
			"processed_at": now,
			"attempts":     gorm.Expr("attempts + 1"),
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, cause error, maxAttempts int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e model.EmailOutbox
		if err := tx.First(&e, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		status := model.OutboxPending // retry on the next poll
		if e.Attempts+1 >= maxAttempts {
			status = model.OutboxFailed
		}
		return tx.Model(&model.EmailOutbox{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":     status,
				"attempts":   e.Attempts + 1,
				"last_error": cause.Error(),
			}).Error
	})
}

func (r *outboxRepository) CountPending(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.EmailOutbox{}).
		Where("status = ?", model.OutboxPending).Count(&cnt).Error
	return cnt, err
}
