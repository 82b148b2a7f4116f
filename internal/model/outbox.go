package model

import "time"

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxSent       OutboxStatus = "sent"
	OutboxFailed     OutboxStatus = "failed"
)

// EmailOutbox is the durable email queue. Services insert rows in the same
// transaction as the state change that triggered them; the outbox worker
// claims pending rows and delivers.
type EmailOutbox struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Recipient string       `gorm:"type:varchar(160);not null" json:"recipient"`
	Subject   string       `gorm:"type:varchar(200);not null" json:"subject"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	Kind      string       `gorm:"type:varchar(32);index" json:"kind"`
	RefID     string       `gorm:"type:varchar(36);index" json:"ref_id,omitempty"`
	Status    OutboxStatus `gorm:"type:varchar(12);index;not null;default:'pending'" json:"status"`
	// ClaimToken identifies which Claim call flipped the row to processing,
	// so a worker never adopts rows a concurrent worker just claimed.
	ClaimToken  string     `gorm:"type:varchar(36);index" json:"-"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `gorm:"type:text" json:"last_error,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (EmailOutbox) TableName() string { return "email_outbox" }
