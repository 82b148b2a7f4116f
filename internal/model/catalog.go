package model

import "time"

// ProductKind discriminates what an OrderItem points at.
type ProductKind string

const (
	ProductPaper  ProductKind = "PAPER"
	ProductCourse ProductKind = "COURSE"
	ProductEbook  ProductKind = "EBOOK"
)

// Paper is a ready-made academic paper sold in the catalog.
// PriceCents == 0 means the paper is free and never requires an order.
type Paper struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Subject     string    `json:"subject" gorm:"type:varchar(80);index"`
	Pages       int       `json:"pages"`
	PriceCents  int64     `json:"price_cents" gorm:"not null;default:0"`
	FileURL     string    `json:"-" gorm:"type:varchar(255)"`
	Published   bool      `json:"published" gorm:"index;not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Paper) TableName() string { return "papers" }

type Course struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Hours       int       `json:"hours"`
	PriceCents  int64     `json:"price_cents" gorm:"not null;default:0"`
	Published   bool      `json:"published" gorm:"index;not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type Ebook struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(200);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Author      string    `json:"author" gorm:"type:varchar(120)"`
	PriceCents  int64     `json:"price_cents" gorm:"not null;default:0"`
	FileURL     string    `json:"-" gorm:"type:varchar(255)"`
	Published   bool      `json:"published" gorm:"index;not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Ebook) TableName() string { return "ebooks" }
