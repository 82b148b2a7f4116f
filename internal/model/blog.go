package model

import "time"

type BlogPost struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID    string     `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string     `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Excerpt     string     `json:"excerpt" gorm:"type:varchar(500)"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Tags        string     `json:"tags" gorm:"type:varchar(255)"`
	Published   bool       `json:"published" gorm:"index;not null;default:false"`
	Views       int64      `json:"views" gorm:"not null;default:0"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (BlogPost) TableName() string { return "blog_posts" }

type BlogComment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);index:idx_comment_post;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_comment_post"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BlogComment) TableName() string { return "blog_comments" }

// BlogLike is idempotent per (user, post) via the composite unique index.
type BlogLike struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);index:idx_like_post;uniqueIndex:ux_like_user_post;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:ux_like_user_post;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlogLike) TableName() string { return "blog_likes" }
