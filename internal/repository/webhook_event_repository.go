package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

type WebhookEventRepository interface {
	// Record inserts the raw delivery; ErrDuplicate means the provider
	// already delivered this event and processing must be skipped.
	Record(ctx context.Context, e *model.WebhookEvent) error
	MarkProcessed(ctx context.Context, id string) error
	RecordError(ctx context.Context, id string, cause error) error
	ListUnprocessed(ctx context.Context, limit int) ([]*model.WebhookEvent, error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Record(ctx context.Context, e *model.WebhookEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{"processed_at": now, "processing_error": ""}).Error
}

func (r *webhookEventRepository) RecordError(ctx context.Context, id string, cause error) error {
	return r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("id = ?", id).
		Update("processing_error", cause.Error()).Error
}

func (r *webhookEventRepository) ListUnprocessed(ctx context.Context, limit int) ([]*model.WebhookEvent, error) {
	var res []*model.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL").
		Order("created_at").Limit(limit).Find(&res).Error
	return res, err
}
