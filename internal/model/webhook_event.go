package model

import "time"

// WebhookEvent stores provider webhook payloads with deduplication metadata.
// The unique (provider, provider_event_id) index is what makes webhook
// processing idempotent on provider retries; ProcessingError keeps the
// dead-letter trail for deliveries we acknowledged but failed to apply.
type WebhookEvent struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Provider        string     `gorm:"type:varchar(20);not null;uniqueIndex:ux_webhook_provider_event" json:"provider"`
	ProviderEventID string     `gorm:"type:varchar(64);not null;uniqueIndex:ux_webhook_provider_event" json:"provider_event_id"`
	EventType       string     `gorm:"type:varchar(64);index;not null" json:"event_type"`
	OrderID         string     `gorm:"type:varchar(36);index" json:"order_id,omitempty"`
	Payload         string     `gorm:"type:text;not null" json:"payload"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (WebhookEvent) TableName() string { return "webhook_events" }

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Paper{}, &Course{}, &Ebook{},
		&Order{}, &OrderItem{},
		&CourseEnrollment{}, &LibraryItem{},
		&CustomPaper{}, &CustomPaperMessage{},
		&CollaboratorApplication{}, &Evaluation{},
		&ContactMessage{},
		&BlogPost{}, &BlogComment{}, &BlogLike{},
		&NewsletterSubscriber{}, &NewsletterCampaign{},
		&EmailOutbox{}, &WebhookEvent{},
	}
}
