package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

type MessageRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)
	List(ctx context.Context, status model.MessageStatus, offset, limit int) ([]*model.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error

	// Reply sets replied, reply_content, replied_at and assigned_to together;
	// they are never written independently.
	Reply(ctx context.Context, id, content, assignedTo string) error

	CountUnread(ctx context.Context) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository { return &messageRepository{db: db} }

func (r *messageRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *messageRepository) List(ctx context.Context, status model.MessageStatus, offset, limit int) ([]*model.ContactMessage, error) {
	var res []*model.ContactMessage
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *messageRepository) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	res := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) Reply(ctx context.Context, id, content, assignedTo string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"replied":       true,
			"reply_content": content,
			"replied_at":    now,
			"assigned_to":   assignedTo,
			"status":        model.MessageRead,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.ContactMessage{}).
		Where("status = ?", model.MessageUnread).Count(&cnt).Error
	return cnt, err
}
