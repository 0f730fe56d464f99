package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	StatusCreated        CandidateStatus = "created"
	StatusParsed         CandidateStatus = "parsed"
	StatusQuestionsReady CandidateStatus = "questions_ready"
	StatusScored         CandidateStatus = "scored"
	StatusFailed         CandidateStatus = "failed"
)

type Candidate struct {
	ID               string          `gorm:"type:text;primary_key" json:"id"`
	OriginalFileName string          `gorm:"type:text" json:"original_filename"`
	ResumePath       string          `gorm:"type:text" json:"resume_path"`
	Status           CandidateStatus `gorm:"not null;default:'created'" json:"status"`
	QuestionCount    int             `gorm:"default:0" json:"question_count"`
	ErrorMessage     *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// NewCandidateID generates ids of the form cand-1a2b3c4d, which also namespace
// every artifact key written for that candidate.
func NewCandidateID() string {
	return fmt.Sprintf("cand-%s", uuid.New().String()[:8])
}
