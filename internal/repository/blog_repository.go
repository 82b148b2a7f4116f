package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studahub/backend/internal/model"
)

type BlogRepository interface {
	CreatePost(ctx context.Context, p *model.BlogPost) error
	GetPost(ctx context.Context, id string) (*model.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	ListPosts(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.BlogPost, error)
	UpdatePost(ctx context.Context, p *model.BlogPost) error
	IncrementViews(ctx context.Context, id string) error

	AddComment(ctx context.Context, c *model.BlogComment) error
	ListComments(ctx context.Context, postID string, offset, limit int) ([]*model.BlogComment, error)
	DeleteComment(ctx context.Context, id string) error

	// Like is idempotent per (user, post) via OnConflict DoNothing.
	Like(ctx context.Context, postID, userID string) error
	Unlike(ctx context.Context, postID, userID string) error
	CountLikes(ctx context.Context, postID string) (int64, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository { return &blogRepository{db: db} }

func (r *blogRepository) CreatePost(ctx context.Context, p *model.BlogPost) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *blogRepository) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *blogRepository) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var p model.BlogPost
	if err := r.db.WithContext(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *blogRepository) ListPosts(ctx context.Context, onlyPublished bool, offset, limit int) ([]*model.BlogPost, error) {
	var res []*model.BlogPost
	q := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit)
	if onlyPublished {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *blogRepository) UpdatePost(ctx context.Context, p *model.BlogPost) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *blogRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *blogRepository) AddComment(ctx context.Context, c *model.BlogComment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *blogRepository) ListComments(ctx context.Context, postID string, offset, limit int) ([]*model.BlogComment, error) {
	var res []*model.BlogComment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (r *blogRepository) DeleteComment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.BlogComment{}, "id = ?", id).Error
}

func (r *blogRepository) Like(ctx context.Context, postID, userID string) error {
	l := &model.BlogLike{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *blogRepository) Unlike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&model.BlogLike{}).Error
}

func (r *blogRepository) CountLikes(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.BlogLike{}).
		Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
