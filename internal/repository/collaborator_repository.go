package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

type CollaboratorRepository interface {
	// Create relies on the unique user_id index: a second application from
	// the same user returns ErrDuplicate no matter how the race interleaves.
	Create(ctx context.Context, a *model.CollaboratorApplication) error
	GetByID(ctx context.Context, id string) (*model.CollaboratorApplication, error)
	GetByUserID(ctx context.Context, userID string) (*model.CollaboratorApplication, error)
	List(ctx context.Context, status model.ApplicationStatus, offset, limit int) ([]*model.CollaboratorApplication, error)
	Update(ctx context.Context, a *model.CollaboratorApplication) error

	// AddEvaluation inserts the evaluation and recomputes the averaged score
	// in one transaction.
	AddEvaluation(ctx context.Context, e *model.Evaluation) error

	// Approve flips the application and the linked user's role together.
	Approve(ctx context.Context, applicationID string) error
}

type collaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

func (r *collaboratorRepository) Create(ctx context.Context, a *model.CollaboratorApplication) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *collaboratorRepository) GetByID(ctx context.Context, id string) (*model.CollaboratorApplication, error) {
	var a model.CollaboratorApplication
	if err := r.db.WithContext(ctx).Preload("Evaluations").First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *collaboratorRepository) GetByUserID(ctx context.Context, userID string) (*model.CollaboratorApplication, error) {
	var a model.CollaboratorApplication
	if err := r.db.WithContext(ctx).Preload("Evaluations").First(&a, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *collaboratorRepository) List(ctx context.Context, status model.ApplicationStatus, offset, limit int) ([]*model.CollaboratorApplication, error) {
	var res []*model.CollaboratorApplication
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *collaboratorRepository) Update(ctx context.Context, a *model.CollaboratorApplication) error {
	return translate(r.db.WithContext(ctx).Save(a).Error)
}

func (r *collaboratorRepository) AddEvaluation(ctx context.Context, e *model.Evaluation) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		var avg *float64
		if err := tx.Model(&model.Evaluation{}).
			Select("AVG(score)").
			Where("application_id = ?", e.ApplicationID).
			Scan(&avg).Error; err != nil {
			return err
		}
		return tx.Model(&model.CollaboratorApplication{}).
			Where("id = ?", e.ApplicationID).
			Update("score", avg).Error
	})
}

func (r *collaboratorRepository) Approve(ctx context.Context, applicationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.CollaboratorApplication
		if err := tx.First(&a, "id = ?", applicationID).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&model.CollaboratorApplication{}).
			Where("id = ?", a.ID).
			Updates(map[string]any{"status": model.ApplicationApproved, "stage": model.StageHired}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", a.UserID).
			Update("role", model.RoleCollaborator).Error
	})
}
