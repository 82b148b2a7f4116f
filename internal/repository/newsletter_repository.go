package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studahub/backend/internal/model"
)

type NewsletterRepository interface {
	// Subscribe upserts on email: re-subscribing a known address reactivates
	// it instead of failing on the unique index.
	Subscribe(ctx context.Context, email, name string) error
	Unsubscribe(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]*model.NewsletterSubscriber, error)
	CountActive(ctx context.Context) (int64, error)

	// CreateCampaign stores the campaign and fans out one outbox row per
	// active subscriber in a single transaction.
	CreateCampaign(ctx context.Context, c *model.NewsletterCampaign) error
}

type newsletterRepository struct {
	db *gorm.DB
}

func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email, name string) error {
	s := &model.NewsletterSubscriber{ID: uuid.New().String(), Email: email, Name: name, Active: true}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{"active": true, "unsubscribed_at": nil}),
	}).Create(s).Error
}

func (r *newsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("email = ?", email).
		Updates(map[string]any{"active": false, "unsubscribed_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *newsletterRepository) ListActive(ctx context.Context) ([]*model.NewsletterSubscriber, error) {
	var res []*model.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&res).Error
	return res, err
}

func (r *newsletterRepository) CountActive(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.NewsletterSubscriber{}).
		Where("active = ?", true).Count(&cnt).Error
	return cnt, err
}

func (r *newsletterRepository) CreateCampaign(ctx context.Context, c *model.NewsletterCampaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subs []*model.NewsletterSubscriber
		if err := tx.Where("active = ?", true).Find(&subs).Error; err != nil {
			return err
		}
		c.Recipients = len(subs)
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		if len(subs) == 0 {
			return nil
		}
		rows := make([]model.EmailOutbox, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, model.EmailOutbox{
				ID:        uuid.New().String(),
				Recipient: s.Email,
				Subject:   c.Subject,
				Body:      c.Body,
				Kind:      "newsletter",
				RefID:     c.ID,
				Status:    model.OutboxPending,
			})
		}
		return tx.CreateInBatches(rows, 500).Error
	})
}
