package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studahub/backend/internal/model"
)

// ProductInfo is the priced view of a catalog item used by checkout.
type ProductInfo struct {
	Kind       model.ProductKind
	ID         string
	Title      string
	PriceCents int64
	Published  bool
}

type CatalogRepository interface {
	CreatePaper(ctx context.Context, p *model.Paper) error
	CreateCourse(ctx context.Context, c *model.Course) error
	CreateEbook(ctx context.Context, e *model.Ebook) error

	GetPaper(ctx context.Context, id string) (*model.Paper, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	GetEbook(ctx context.Context, id string) (*model.Ebook, error)

	ListPapers(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Paper, error)
	ListCourses(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Course, error)
	ListEbooks(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Ebook, error)

	UpdatePaper(ctx context.Context, p *model.Paper) error
	UpdateCourse(ctx context.Context, c *model.Course) error
	UpdateEbook(ctx context.Context, e *model.Ebook) error

	// Resolve loads the priced view of any product kind; checkout uses it so
	// totals always come from the catalog, never from the client.
	Resolve(ctx context.Context, kind model.ProductKind, id string) (*ProductInfo, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepository{db: db} }

func (r *catalogRepository) CreatePaper(ctx context.Context, p *model.Paper) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *catalogRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *catalogRepository) CreateEbook(ctx context.Context, e *model.Ebook) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *catalogRepository) GetPaper(ctx context.Context, id string) (*model.Paper, error) {
	var p model.Paper
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *catalogRepository) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *catalogRepository) GetEbook(ctx context.Context, id string) (*model.Ebook, error) {
	var e model.Ebook
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *catalogRepository) ListPapers(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Paper, error) {
	var res []*model.Paper
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if onlyPublished {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *catalogRepository) ListCourses(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Course, error) {
	var res []*model.Course
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if onlyPublished {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *catalogRepository) ListEbooks(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.Ebook, error) {
	var res []*model.Ebook
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if onlyPublished {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *catalogRepository) UpdatePaper(ctx context.Context, p *model.Paper) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *catalogRepository) UpdateCourse(ctx context.Context, c *model.Course) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *catalogRepository) UpdateEbook(ctx context.Context, e *model.Ebook) error {
	return translate(r.db.WithContext(ctx).Save(e).Error)
}

func (r *catalogRepository) Resolve(ctx context.Context, kind model.ProductKind, id string) (*ProductInfo, error) {
	switch kind {
	case model.ProductPaper:
		p, err := r.GetPaper(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ProductInfo{Kind: kind, ID: p.ID, Title: p.Title, PriceCents: p.PriceCents, Published: p.Published}, nil
	case model.ProductCourse:
		c, err := r.GetCourse(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ProductInfo{Kind: kind, ID: c.ID, Title: c.Title, PriceCents: c.PriceCents, Published: c.Published}, nil
	case model.ProductEbook:
		e, err := r.GetEbook(ctx, id)
		if err != nil {
			return nil, err
		}
		return &ProductInfo{Kind: kind, ID: e.ID, Title: e.Title, PriceCents: e.PriceCents, Published: e.Published}, nil
	default:
		return nil, fmt.Errorf("unknown product kind %q", kind)
	}
}
