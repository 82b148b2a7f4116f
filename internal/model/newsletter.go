package model

import "time"

type NewsletterSubscriber struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email          string     `json:"email" gorm:"type:varchar(160);uniqueIndex;not null"`
	Name           string     `json:"name,omitempty" gorm:"type:varchar(120)"`
	Active         bool       `json:"active" gorm:"index;not null;default:true"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

type NewsletterCampaign struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Subject   string     `json:"subject" gorm:"type:varchar(200);not null"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	CreatedBy string     `json:"created_by" gorm:"type:varchar(36);not null"`
	// Recipients is fixed at enqueue time: one outbox row per active
	// subscriber inside the same transaction.
	Recipients int        `json:"recipients" gorm:"not null;default:0"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (NewsletterCampaign) TableName() string { return "newsletter_campaigns" }
