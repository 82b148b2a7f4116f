package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/repository"
)

type BlogService interface {
	CreatePost(ctx context.Context, authorID, title, content, excerpt, tags string) (*model.BlogPost, error)
	Publish(ctx context.Context, id string) (*model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	List(ctx context.Context, page, pageSize int, includeDrafts bool) ([]*model.BlogPost, error)

	Comment(ctx context.Context, postID, userID, content string) (*model.BlogComment, error)
	Comments(ctx context.Context, postID string, page, pageSize int) ([]*model.BlogComment, error)
	Like(ctx context.Context, postID, userID string) (int64, error)
	Unlike(ctx context.Context, postID, userID string) (int64, error)
}

type blogService struct {
	repo repository.BlogRepository
}

func NewBlogService(repo repository.BlogRepository) BlogService { return &blogService{repo: repo} }

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

func (s *blogService) CreatePost(ctx context.Context, authorID, title, content, excerpt, tags string) (*model.BlogPost, error) {
	p := &model.BlogPost{
		AuthorID: authorID,
		Title:    title,
		Slug:     slugify(title),
		Excerpt:  excerpt,
		Content:  content,
		Tags:     tags,
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *blogService) Publish(ctx context.Context, id string) (*model.BlogPost, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p.Published = true
	p.PublishedAt = &now
	if err := s.repo.UpdatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetBySlug also counts the view; the increment is a single UPDATE so
// concurrent reads don't lose counts.
func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	_ = s.repo.IncrementViews(ctx, p.ID)
	return p, nil
}

func (s *blogService) List(ctx context.Context, page, pageSize int, includeDrafts bool) ([]*model.BlogPost, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.repo.ListPosts(ctx, !includeDrafts, offset, limit)
}

func (s *blogService) Comment(ctx context.Context, postID, userID, content string) (*model.BlogComment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	c := &model.BlogComment{PostID: postID, UserID: userID, Content: content}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *blogService) Comments(ctx context.Context, postID string, page, pageSize int) ([]*model.BlogComment, error) {
	offset, limit := pageBounds(page, pageSize)
	return s.repo.ListComments(ctx, postID, offset, limit)
}

func (s *blogService) Like(ctx context.Context, postID, userID string) (int64, error) {
	if err := s.repo.Like(ctx, postID, userID); err != nil {
		return 0, err
	}
	return s.repo.CountLikes(ctx, postID)
}

func (s *blogService) Unlike(ctx context.Context, postID, userID string) (int64, error) {
	if err := s.repo.Unlike(ctx, postID, userID); err != nil {
		return 0, err
	}
	return s.repo.CountLikes(ctx, postID)
}
