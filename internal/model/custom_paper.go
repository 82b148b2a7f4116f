package model

import "time"

type CustomPaperStatus string

const (
	CustomPaperRequested  CustomPaperStatus = "REQUESTED"
	CustomPaperQuoted     CustomPaperStatus = "QUOTED"
	CustomPaperApproved   CustomPaperStatus = "APPROVED"
	CustomPaperRejected   CustomPaperStatus = "REJECTED"
	CustomPaperInProgress CustomPaperStatus = "IN_PROGRESS"
	CustomPaperReview     CustomPaperStatus = "REVIEW"
	CustomPaperCompleted  CustomPaperStatus = "COMPLETED"
)

type Urgency string

const (
	UrgencyNormal     Urgency = "NORMAL"
	UrgencyUrgent     Urgency = "URGENT"
	UrgencyVeryUrgent Urgency = "VERY_URGENT"
)

// customPaperTransitions: linear happy path with a single reject branch.
// REJECTED is only reachable before approval and is terminal, as is COMPLETED.
var customPaperTransitions = map[CustomPaperStatus][]CustomPaperStatus{
	CustomPaperRequested:  {CustomPaperQuoted, CustomPaperRejected},
	CustomPaperQuoted:     {CustomPaperApproved, CustomPaperRejected},
	CustomPaperApproved:   {CustomPaperInProgress},
	CustomPaperInProgress: {CustomPaperReview},
	CustomPaperReview:     {CustomPaperCompleted, CustomPaperInProgress},
	CustomPaperRejected:   {},
	CustomPaperCompleted:  {},
}

func (s CustomPaperStatus) CanTransition(next CustomPaperStatus) bool {
	for _, t := range customPaperTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

func ValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyVeryUrgent:
		return true
	}
	return false
}

type CustomPaper struct {
	ID          string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string            `json:"user_id" gorm:"type:varchar(36);index:idx_cpaper_user;not null"`
	Title       string            `json:"title" gorm:"type:varchar(200);not null"`
	Description string            `json:"description" gorm:"type:text"`
	Subject     string            `json:"subject" gorm:"type:varchar(80)"`
	Pages       int               `json:"pages"`
	Urgency     Urgency           `json:"urgency" gorm:"type:varchar(16);not null;default:'NORMAL'"`
	Status      CustomPaperStatus `json:"status" gorm:"type:varchar(16);index;not null;default:'REQUESTED'"`

	// QuotedCents stays nil until staff quotes; FinalCents is copied from it
	// at approval time and never changes afterwards.
	QuotedCents *int64     `json:"quoted_cents,omitempty"`
	FinalCents  *int64     `json:"final_cents,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`

	DeliverableURL string `json:"deliverable_url,omitempty" gorm:"type:varchar(255)"`

	Messages []CustomPaperMessage `json:"messages,omitempty" gorm:"foreignKey:CustomPaperID"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CustomPaper) TableName() string { return "custom_papers" }

// CustomPaperMessage is one entry in the request's discussion thread.
type CustomPaperMessage struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomPaperID string    `json:"custom_paper_id" gorm:"type:varchar(36);index:idx_cpmsg_paper;not null"`
	SenderID      string    `json:"sender_id" gorm:"type:varchar(36);not null"`
	SenderRole    Role      `json:"sender_role" gorm:"type:varchar(16);not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"index:idx_cpmsg_paper"`
}

func (CustomPaperMessage) TableName() string { return "custom_paper_messages" }
