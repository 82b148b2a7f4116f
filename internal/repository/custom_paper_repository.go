package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

type CustomPaperRepository interface {
	Create(ctx context.Context, p *model.CustomPaper) error
	GetByID(ctx context.Context, id string) (*model.CustomPaper, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.CustomPaper, error)
	List(ctx context.Context, status model.CustomPaperStatus, offset, limit int) ([]*model.CustomPaper, error)
	Update(ctx context.Context, p *model.CustomPaper) error

	AddMessage(ctx context.Context, m *model.CustomPaperMessage) error
	ListMessages(ctx context.Context, paperID string) ([]*model.CustomPaperMessage, error)
}

type customPaperRepository struct {
	db *gorm.DB
}

func NewCustomPaperRepository(db *gorm.DB) CustomPaperRepository {
	return &customPaperRepository{db: db}
}

func (r *customPaperRepository) Create(ctx context.Context, p *model.CustomPaper) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *customPaperRepository) GetByID(ctx context.Context, id string) (*model.CustomPaper, error) {
	var p model.CustomPaper
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *customPaperRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.CustomPaper, error) {
	var res []*model.CustomPaper
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *customPaperRepository) List(ctx context.Context, status model.CustomPaperStatus, offset, limit int) ([]*model.CustomPaper, error) {
	var res []*model.CustomPaper
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *customPaperRepository) Update(ctx context.Context, p *model.CustomPaper) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *customPaperRepository) AddMessage(ctx context.Context, m *model.CustomPaperMessage) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *customPaperRepository) ListMessages(ctx context.Context, paperID string) ([]*model.CustomPaperMessage, error) {
	var res []*model.CustomPaperMessage
	err := r.db.WithContext(ctx).Where("custom_paper_id = ?", paperID).
		Order("created_at ASC").Find(&res).Error
	return res, err
}
