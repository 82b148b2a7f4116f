package model

import "time"

type MessageStatus string

const (
	MessageUnread   MessageStatus = "UNREAD"
	MessageRead     MessageStatus = "READ"
	MessageArchived MessageStatus = "ARCHIVED"
)

type MessagePriority string

const (
	PriorityLow    MessagePriority = "LOW"
	PriorityNormal MessagePriority = "NORMAL"
	PriorityHigh   MessagePriority = "HIGH"
	PriorityUrgent MessagePriority = "URGENT"
)

// ContactMessage is a contact-form submission that survived the anti-spam
// scorer. Reply fields are set together when staff answers.
type ContactMessage struct {
	ID       string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name     string          `json:"name" gorm:"type:varchar(120);not null"`
	Email    string          `json:"email" gorm:"type:varchar(160);index;not null"`
	Subject  string          `json:"subject" gorm:"type:varchar(200)"`
	Content  string          `json:"content" gorm:"type:text;not null"`
	IP       string          `json:"-" gorm:"type:varchar(45);index"`
	Status   MessageStatus   `json:"status" gorm:"type:varchar(10);index;not null;default:'UNREAD'"`
	Priority MessagePriority `json:"priority" gorm:"type:varchar(8);not null;default:'NORMAL'"`

	Replied      bool       `json:"replied" gorm:"not null;default:false"`
	ReplyContent string     `json:"reply_content,omitempty" gorm:"type:text"`
	RepliedAt    *time.Time `json:"replied_at,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty" gorm:"type:varchar(36)"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
