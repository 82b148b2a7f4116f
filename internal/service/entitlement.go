package service

import (
	"context"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

// Entitlements answers "does this user own this product". A price of zero
// always counts as owned: free ebooks and papers never require an order.
type Entitlements interface {
	HasPurchasedEbook(ctx context.Context, userID, ebookID string) (bool, error)
	HasPurchasedPaper(ctx context.Context, userID, paperID string) (bool, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
	Owns(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error)
	Library(ctx context.Context, userID string) ([]*model.LibraryItem, error)
	Enrollments(ctx context.Context, userID string) ([]*model.CourseEnrollment, error)
}

type entitlementService struct {
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
	ent     repository.EntitlementRepository
}

func NewEntitlementService(catalog repository.CatalogRepository, orders repository.OrderRepository, ent repository.EntitlementRepository) Entitlements {
	return &entitlementService{catalog: catalog, orders: orders, ent: ent}
}

func (s *entitlementService) HasPurchasedEbook(ctx context.Context, userID, ebookID string) (bool, error) {
	e, err := s.catalog.GetEbook(ctx, ebookID)
	if err != nil {
		return false, err
	}
	if e.PriceCents == 0 {
		return true, nil
	}
	// Entitlement is inferred from the order, not a separate record.
	return s.orders.HasConfirmedItem(ctx, userID, model.ProductEbook, ebookID)
}

func (s *entitlementService) HasPurchasedPaper(ctx context.Context, userID, paperID string) (bool, error) {
	p, err := s.catalog.GetPaper(ctx, paperID)
	if err != nil {
		return false, err
	}
	if p.PriceCents == 0 {
		return true, nil
	}
	return s.orders.HasConfirmedItem(ctx, userID, model.ProductPaper, paperID)
}

func (s *entitlementService) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	c, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	if c.PriceCents == 0 {
		return true, nil
	}
	return s.ent.IsEnrolled(ctx, userID, courseID)
}

func (s *entitlementService) Owns(ctx context.Context, userID string, kind model.ProductKind, productID string) (bool, error) {
	switch kind {
	case model.ProductEbook:
		return s.HasPurchasedEbook(ctx, userID, productID)
	case model.ProductPaper:
		return s.HasPurchasedPaper(ctx, userID, productID)
	case model.ProductCourse:
		return s.IsEnrolled(ctx, userID, productID)
	}
	return false, nil
}

func (s *entitlementService) Library(ctx context.Context, userID string) ([]*model.LibraryItem, error) {
	return s.ent.ListLibrary(ctx, userID)
}

func (s *entitlementService) Enrollments(ctx context.Context, userID string) ([]*model.CourseEnrollment, error) {
	return s.ent.ListEnrollments(ctx, userID)
}
