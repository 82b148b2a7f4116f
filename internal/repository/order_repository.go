package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

// StatusCount is one bucket of the admin order breakdown.
type StatusCount struct {
	Status model.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	GetByChargeID(ctx context.Context, chargeID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Order, error)
	List(ctx context.Context, status model.OrderStatus, offset, limit int) ([]*model.Order, error)

	// UpdatePayment persists a payment transition together with the order
	// status so the CONFIRMED => COMPLETED invariant can never be half-applied.
	UpdatePayment(ctx context.Context, id string, ps model.PaymentStatus, os model.OrderStatus, paidAt *time.Time) error
	SetGatewayRefs(ctx context.Context, id, chargeID, pixPayload, boletoURL string) error

	// HasConfirmedItem backs the entitlement check for paid ebooks/papers.
	HasConfirmedItem(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	ConfirmedRevenueCents(ctx context.Context) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.New().String()
		}
		o.Items[i].OrderID = o.ID
	}
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepository) GetByChargeID(ctx context.Context, chargeID string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "charge_id = ?", chargeID).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Order, error) {
	var res []*model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *orderRepository) List(ctx context.Context, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	var res []*model.Order
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *orderRepository) UpdatePayment(ctx context.Context, id string, ps model.PaymentStatus, os model.OrderStatus, paidAt *time.Time) error {
	updates := map[string]any{"payment_status": ps, "status": os}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetGatewayRefs(ctx context.Context, id, chargeID, pixPayload, boletoURL string) error {
	updates := map[string]any{}
	if chargeID != "" {
		updates["charge_id"] = chargeID
	}
	if pixPayload != "" {
		updates["pix_payload"] = pixPayload
	}
	if boletoURL != "" {
		updates["boleto_url"] = boletoURL
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *orderRepository) HasConfirmedItem(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.payment_status = ?", userID, model.PaymentConfirmed).
		Where("order_items.kind = ? AND order_items.product_id = ?", kind, productID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var res []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&res).Error
	return res, err
}

func (r *orderRepository) ConfirmedRevenueCents(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("SUM(total_cents)").
		Where("payment_status = ?", model.PaymentConfirmed).
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
