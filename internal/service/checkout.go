package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/studahub/backend/internal/gateway"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/pkg/logger"
)

var (
	ErrEmptyCart        = errors.New("no chargeable items in cart")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrUnpublished      = errors.New("product is not available")
	ErrAlreadyPurchased = errors.New("item already purchased")
)

type CheckoutItem struct {
	Kind      model.ProductKind `json:"kind"`
	ProductID string            `json:"product_id"`
}

type CheckoutInput struct {
	UserID        string
	PaymentMethod model.PaymentMethod
	Items         []CheckoutItem
	CardToken     string
}

type CheckoutResult struct {
	Order      *model.Order        `json:"order"`
	PixPayload string              `json:"pix_payload,omitempty"`
	BoletoURL  string              `json:"boleto_url,omitempty"`
	ChargeID   string              `json:"charge_id,omitempty"`
	Status     model.PaymentStatus `json:"status"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context, userID string, page, pageSize int) ([]*model.Order, error)
	ListAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]*model.Order, error)
}

type checkoutService struct {
	orders    repository.OrderRepository
	catalog   repository.CatalogRepository
	users     repository.UserRepository
	ent       Entitlements
	gw        gateway.Client
	fulfiller *Fulfiller
}

func NewCheckoutService(orders repository.OrderRepository, catalog repository.CatalogRepository, users repository.UserRepository, ent Entitlements, gw gateway.Client, fulfiller *Fulfiller) CheckoutService {
	return &checkoutService{orders: orders, catalog: catalog, users: users, ent: ent, gw: gw, fulfiller: fulfiller}
}

// Checkout creates the order at PENDING/PENDING and dispatches per payment
// method. Totals always come from the catalog, never from the request. On a
// gateway failure the order stays PENDING and the caller must retry checkout.
func (s *checkoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if !model.ValidPaymentMethod(in.PaymentMethod) {
		return nil, ErrInvalidMethod
	}

	var (
		items []model.OrderItem
		total int64
	)
	for _, it := range in.Items {
		info, err := s.catalog.Resolve(ctx, it.Kind, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !info.Published {
			return nil, ErrUnpublished
		}
		// Free items are always owned and never enter an order.
		if info.PriceCents == 0 {
			continue
		}
		owned, err := s.ent.Owns(ctx, in.UserID, it.Kind, it.ProductID)
		if err != nil {
			return nil, err
		}
		if owned {
			return nil, ErrAlreadyPurchased
		}
		items = append(items, model.OrderItem{
			Kind:       info.Kind,
			ProductID:  info.ID,
			Title:      info.Title,
			PriceCents: info.PriceCents,
		})
		total += info.PriceCents
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &model.Order{
		UserID:        in.UserID,
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: in.PaymentMethod,
		TotalCents:    total,
		Items:         items,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	customerID, err := s.gw.CreateCustomer(ctx, gateway.Customer{Name: user.Name, Email: user.Email, Phone: user.Phone})
	if err != nil {
		return nil, err
	}

	req := gateway.ChargeRequest{
		CustomerID:        customerID,
		BillingType:       string(in.PaymentMethod),
		ValueCents:        total,
		DueDate:           time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		Description:       fmt.Sprintf("Order %s", order.ID),
		ExternalReference: order.ID,
		CardToken:         in.CardToken,
	}
	charge, err := s.gw.CreateCharge(ctx, req)
	if err != nil {
		// Order stays PENDING; the upstream message is surfaced as-is.
		logger.Warn("checkout: gateway charge failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return nil, err
	}

	result := &CheckoutResult{Order: order, ChargeID: charge.ID, Status: model.PaymentPending}

	switch in.PaymentMethod {
	case model.MethodPix:
		qr, err := s.gw.GetPixQRCode(ctx, charge.ID)
		if err != nil {
			return nil, err
		}
		if err := s.orders.SetGatewayRefs(ctx, order.ID, charge.ID, qr.Payload, ""); err != nil {
			return nil, err
		}
		order.ChargeID, order.PixPayload = charge.ID, qr.Payload
		result.PixPayload = qr.Payload

	case model.MethodBoleto:
		if err := s.orders.SetGatewayRefs(ctx, order.ID, charge.ID, "", charge.BankSlipURL); err != nil {
			return nil, err
		}
		order.ChargeID, order.BoletoURL = charge.ID, charge.BankSlipURL
		result.BoletoURL = charge.BankSlipURL

	case model.MethodCreditCard, model.MethodDebitCard:
		if err := s.orders.SetGatewayRefs(ctx, order.ID, charge.ID, "", ""); err != nil {
			return nil, err
		}
		order.ChargeID = charge.ID
		if charge.Status == gateway.ChargeConfirmed || charge.Status == gateway.ChargeReceived {
			if err := s.fulfiller.Confirm(ctx, order); err != nil {
				return nil, err
			}
			result.Status = model.PaymentConfirmed
		}
	}

	return result, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID string, page, pageSize int) ([]*model.Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.orders.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

func (s *checkoutService) ListAllOrders(ctx context.Context, status model.OrderStatus, page, pageSize int) ([]*model.Order, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.orders.List(ctx, status, offset, limit)
}
