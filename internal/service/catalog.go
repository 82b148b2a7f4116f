package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

// CatalogService serves the public catalog with redis snapshot caching.
// List pages are cached as JSON with a TTL and invalidated on writes.
type CatalogService interface {
	ListPapers(ctx context.Context, page, pageSize int) ([]*model.Paper, error)
	ListCourses(ctx context.Context, page, pageSize int) ([]*model.Course, error)
	ListEbooks(ctx context.Context, page, pageSize int) ([]*model.Ebook, error)

	GetPaper(ctx context.Context, id string) (*model.Paper, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	GetEbook(ctx context.Context, id string) (*model.Ebook, error)

	CreatePaper(ctx context.Context, p *model.Paper) error
	CreateCourse(ctx context.Context, c *model.Course) error
	CreateEbook(ctx context.Context, e *model.Ebook) error
	UpdatePaper(ctx context.Context, p *model.Paper) error
	UpdateCourse(ctx context.Context, c *model.Course) error
	UpdateEbook(ctx context.Context, e *model.Ebook) error
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache *redis.Client
	ttl   time.Duration
}

// NewCatalogService builds the cached catalog. cache may be nil, which
// degrades to straight DB reads.
func NewCatalogService(repo repository.CatalogRepository, cache *redis.Client, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &catalogService{repo: repo, cache: cache, ttl: ttl}
}

func cacheKey(kind string, page, pageSize int) string {
	return fmt.Sprintf("catalog:%s:%d:%d", kind, page, pageSize)
}

func listCached[T any](ctx context.Context, s *catalogService, kind string, page, pageSize int,
	load func(ctx context.Context, offset, limit int) ([]*T, error)) ([]*T, error) {

	offset, limit := pageBounds(page, pageSize)
	key := cacheKey(kind, page, pageSize)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var out []*T
			if uErr := json.Unmarshal(data, &out); uErr == nil {
				return out, nil
			}
		}
	}

	rows, err := load(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if payload, err := json.Marshal(rows); err == nil {
			_ = s.cache.Set(ctx, key, payload, s.ttl).Err()
		}
	}
	return rows, nil
}

// invalidate drops every cached page for a kind. SCAN keeps it safe on a
// shared redis.
func (s *catalogService) invalidate(ctx context.Context, kind string) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "catalog:"+kind+":*", 100).Iterator()
	for iter.Next(ctx) {
		_ = s.cache.Del(ctx, iter.Val()).Err()
	}
}

func (s *catalogService) ListPapers(ctx context.Context, page, pageSize int) ([]*model.Paper, error) {
	return listCached(ctx, s, "papers", page, pageSize, func(ctx context.Context, offset, limit int) ([]*model.Paper, error) {
		return s.repo.ListPapers(ctx, true, offset, limit)
	})
}

func (s *catalogService) ListCourses(ctx context.Context, page, pageSize int) ([]*model.Course, error) {
	return listCached(ctx, s, "courses", page, pageSize, func(ctx context.Context, offset, limit int) ([]*model.Course, error) {
		return s.repo.ListCourses(ctx, true, offset, limit)
	})
}

func (s *catalogService) ListEbooks(ctx context.Context, page, pageSize int) ([]*model.Ebook, error) {
	return listCached(ctx, s, "ebooks", page, pageSize, func(ctx context.Context, offset, limit int) ([]*model.Ebook, error) {
		return s.repo.ListEbooks(ctx, true, offset, limit)
	})
}

func (s *catalogService) GetPaper(ctx context.Context, id string) (*model.Paper, error) {
	return s.repo.GetPaper(ctx, id)
}

func (s *catalogService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	return s.repo.GetCourse(ctx, id)
}

func (s *catalogService) GetEbook(ctx context.Context, id string) (*model.Ebook, error) {
	return s.repo.GetEbook(ctx, id)
}

func (s *catalogService) CreatePaper(ctx context.Context, p *model.Paper) error {
	if p.Slug == "" {
		p.Slug = slugify(p.Title)
	}
	if err := s.repo.CreatePaper(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, "papers")
	return nil
}

func (s *catalogService) CreateCourse(ctx context.Context, c *model.Course) error {
	if c.Slug == "" {
		c.Slug = slugify(c.Title)
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, "courses")
	return nil
}

func (s *catalogService) CreateEbook(ctx context.Context, e *model.Ebook) error {
	if e.Slug == "" {
		e.Slug = slugify(e.Title)
	}
	if err := s.repo.CreateEbook(ctx, e); err != nil {
		return err
	}
	s.invalidate(ctx, "ebooks")
	return nil
}

func (s *catalogService) UpdatePaper(ctx context.Context, p *model.Paper) error {
	if err := s.repo.UpdatePaper(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, "papers")
	return nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, c *model.Course) error {
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, "courses")
	return nil
}

func (s *catalogService) UpdateEbook(ctx context.Context, e *model.Ebook) error {
	if err := s.repo.UpdateEbook(ctx, e); err != nil {
		return err
	}
	s.invalidate(ctx, "ebooks")
	return nil
}
