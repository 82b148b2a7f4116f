package model

import "time"

// CourseEnrollment grants course access after a confirmed payment (or for a
// free course). Unique (user, course) so webhook replays stay idempotent.
type CourseEnrollment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_enroll_user;uniqueIndex:ux_enroll_user_course;not null" json:"user_id"`
	CourseID  string    `gorm:"type:varchar(36);uniqueIndex:ux_enroll_user_course;not null" json:"course_id"`
	OrderID   string    `gorm:"type:varchar(36);index" json:"order_id,omitempty"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseEnrollment) TableName() string { return "course_enrollments" }

// LibraryItem is the download entitlement for ebooks and papers.
type LibraryItem struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string      `gorm:"type:varchar(36);index:idx_lib_user;uniqueIndex:ux_lib_user_product;not null" json:"user_id"`
	Kind      ProductKind `gorm:"type:varchar(8);uniqueIndex:ux_lib_user_product;not null" json:"kind"`
	ProductID string      `gorm:"type:varchar(36);uniqueIndex:ux_lib_user_product;not null" json:"product_id"`
	OrderID   string      `gorm:"type:varchar(36);index" json:"order_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (LibraryItem) TableName() string { return "library_items" }
