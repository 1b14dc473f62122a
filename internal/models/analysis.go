package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

// Analysis is a queued scoring job: one resume document against one job
// description and claimed role. Score fields stay nil until the worker
// completes the pipeline.
type Analysis struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID      uuid.UUID      `gorm:"type:uuid;not null" json:"document_id"`
	JobDescription  string         `gorm:"type:text;not null" json:"job_description"`
	Role            string         `gorm:"type:text" json:"role"`
	Status          AnalysisStatus `gorm:"not null;default:'queued'" json:"status"`
	AtsScore        *float64       `gorm:"type:decimal(6,2)" json:"ats_score,omitempty"`
	SimilarityScore *float64       `gorm:"type:decimal(6,2)" json:"similarity_score,omitempty"`
	Recommendation  *string        `gorm:"type:text" json:"recommendation,omitempty"`
	MissingSkills   *string        `gorm:"type:text" json:"missing_skills,omitempty"`
	PredictedRole   *string        `gorm:"type:text" json:"predicted_role,omitempty"`
	RoleConfidence  *float64       `gorm:"type:decimal(6,2)" json:"role_confidence,omitempty"`
	ProfileJSON     *string        `gorm:"type:text" json:"profile,omitempty"`
	ErrorMessage    *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
