package models

import (
	"time"

	"github.com/google/uuid"
)

type Recommendation string

const (
	RecommendHire   Recommendation = "HIRE"
	RecommendHold   Recommendation = "HOLD"
	RecommendNoHire Recommendation = "NO_HIRE"
)

// MaxScorePerQuestion is the rubric ceiling for a single question:
// technical_accuracy(5) + depth(5) + communication(3) + ownership(2).
const MaxScorePerQuestion = 15

// Recommendation thresholds as fractions of max_score. The LLM path is
// instructed to apply the same cutoffs, so callers cannot tell which path
// produced a report.
const (
	HireThreshold = 0.73
	HoldThreshold = 0.50
)

// RecommendationFor maps a total/max ratio onto a hiring recommendation.
// A zero max yields NO_HIRE.
func RecommendationFor(totalScore, maxScore int) Recommendation {
	pct := 0.0
	if maxScore > 0 {
		pct = float64(totalScore) / float64(maxScore)
	}
	switch {
	case pct >= HireThreshold:
		return RecommendHire
	case pct >= HoldThreshold:
		return RecommendHold
	default:
		return RecommendNoHire
	}
}

type PerQuestionScore struct {
	ID                string `json:"id"`
	TechnicalAccuracy int    `json:"technical_accuracy"`
	Depth             int    `json:"depth"`
	Communication     int    `json:"communication"`
	Ownership         int    `json:"ownership"`
	Notes             string `json:"notes"`
}

// Total sums the four sub-scores.
func (s PerQuestionScore) Total() int {
	return s.TechnicalAccuracy + s.Depth + s.Communication + s.Ownership
}

type AggregateScore struct {
	TotalScore     int            `json:"total_score"`
	MaxScore       int            `json:"max_score"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        string         `json:"summary"`
}

type ScoreResult struct {
	PerQuestion []PerQuestionScore `json:"per_question"`
	Aggregate   AggregateScore     `json:"aggregate"`
}

// Report wraps a score result with candidate metadata and a record of where it
// physically lives. Created once per scoring invocation, never mutated.
type Report struct {
	CandidateID     string      `json:"candidate_id"`
	QuestionsCount  int         `json:"questions_count"`
	Result          ScoreResult `json:"result"`
	StorageLocation string      `json:"storage_location,omitempty"`
	LocalPath       string      `json:"local_path,omitempty"`
	StorageError    string      `json:"storage_error,omitempty"`
}

// ReportRecord is the persisted row for a report; the full report body is kept
// as JSON alongside the queryable aggregate columns.
type ReportRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateID     string    `gorm:"type:text;not null;index" json:"candidate_id"`
	QuestionsCount  int       `gorm:"not null" json:"questions_count"`
	TotalScore      int       `gorm:"not null" json:"total_score"`
	MaxScore        int       `gorm:"not null" json:"max_score"`
	Recommendation  string    `gorm:"type:text;not null" json:"recommendation"`
	ReportJSON      string    `gorm:"type:text" json:"-"`
	StorageLocation *string   `gorm:"type:text" json:"storage_location,omitempty"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ReportRecord) TableName() string {
	return "reports"
}
