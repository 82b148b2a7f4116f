package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studahub/backend/internal/model"
)

type EntitlementRepository interface {
	// CreateEnrollment is idempotent: replays hit the (user, course) unique
	// index and are silently ignored.
	CreateEnrollment(ctx context.Context, userID, courseID, orderID string) error
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
	ListEnrollments(ctx context.Context, userID string) ([]*model.CourseEnrollment, error)

	CreateLibraryItem(ctx context.Context, userID string, kind model.ProductKind, productID, orderID string) error
	HasLibraryItem(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error)
	ListLibrary(ctx context.Context, userID string) ([]*model.LibraryItem, error)
}

type entitlementRepository struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepository{db: db}
}

func (r *entitlementRepository) CreateEnrollment(ctx context.Context, userID, courseID, orderID string) error {
	e := &model.CourseEnrollment{ID: uuid.New().String(), UserID: userID, CourseID: courseID, OrderID: orderID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e).Error
}

func (r *entitlementRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *entitlementRepository) ListEnrollments(ctx context.Context, userID string) ([]*model.CourseEnrollment, error) {
	var res []*model.CourseEnrollment
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&res).Error
	return res, err
}

func (r *entitlementRepository) CreateLibraryItem(ctx context.Context, userID string, kind model.ProductKind, productID, orderID string) error {
	it := &model.LibraryItem{ID: uuid.New().String(), UserID: userID, Kind: kind, ProductID: productID, OrderID: orderID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(it).Error
}

func (r *entitlementRepository) HasLibraryItem(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.LibraryItem{}).
		Where("user_id = ? AND kind = ? AND product_id = ?", userID, kind, productID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *entitlementRepository) ListLibrary(ctx context.Context, userID string) ([]*model.LibraryItem, error) {
	var res []*model.LibraryItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&res).Error
	return res, err
}
