package model

import "time"

type ApplicationStatus string

const (
	ApplicationPending      ApplicationStatus = "PENDING"
	ApplicationInterviewing ApplicationStatus = "INTERVIEWING"
	ApplicationApproved     ApplicationStatus = "APPROVED"
	ApplicationRejected     ApplicationStatus = "REJECTED"
)

type ApplicationStage string

const (
	StageReceived      ApplicationStage = "RECEIVED"
	StageScreening     ApplicationStage = "SCREENING"
	StageInterview     ApplicationStage = "INTERVIEW"
	StageTechnicalTest ApplicationStage = "TECHNICAL_TEST"
	StageFinalReview   ApplicationStage = "FINAL_REVIEW"
	StageOffer         ApplicationStage = "OFFER"
	StageHired         ApplicationStage = "HIRED"
)

var applicationStages = []ApplicationStage{
	StageReceived, StageScreening, StageInterview,
	StageTechnicalTest, StageFinalReview, StageOffer, StageHired,
}

// StageIndex returns the pipeline position of s, or -1 when unknown.
func StageIndex(s ApplicationStage) int {
	for i, st := range applicationStages {
		if st == s {
			return i
		}
	}
	return -1
}

// CollaboratorApplication is one-to-one with a User; the unique index on
// UserID is what prevents duplicate submissions under concurrent load.
type CollaboratorApplication struct {
	ID         string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string            `json:"user_id" gorm:"type:varchar(36);uniqueIndex:ux_application_user;not null"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(16);index;not null;default:'PENDING'"`
	Stage      ApplicationStage  `json:"stage" gorm:"type:varchar(20);not null;default:'RECEIVED'"`
	ResumeURL  string            `json:"resume_url,omitempty" gorm:"type:varchar(255)"`
	Motivation string            `json:"motivation" gorm:"type:text"`
	Score      *float64          `json:"score,omitempty"`

	Evaluations []Evaluation `json:"evaluations,omitempty" gorm:"foreignKey:ApplicationID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CollaboratorApplication) TableName() string { return "collaborator_applications" }

type Evaluation struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ApplicationID string    `json:"application_id" gorm:"type:varchar(36);index:idx_eval_application;not null"`
	EvaluatorID   string    `json:"evaluator_id" gorm:"type:varchar(36);not null"`
	Score         float64   `json:"score" gorm:"not null"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Evaluation) TableName() string { return "evaluations" }
