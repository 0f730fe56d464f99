package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"adkrecruit/interview-pipeline/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	FindByID(id string) (*models.Candidate, error)
	UpdateStatus(id string, status models.CandidateStatus) error
	UpdateQuestionCount(id string, count int) error
	UpdateError(id string, errorMsg string) error
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Create implements CandidateRepository.
func (r *candidateRepository) Create(candidate *models.Candidate) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// FindByID implements CandidateRepository.
func (r *candidateRepository) FindByID(id string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate not found")
		}
		return nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return &candidate, nil
}

// UpdateStatus implements CandidateRepository.
func (r *candidateRepository) UpdateStatus(id string, status models.CandidateStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
}

// UpdateQuestionCount implements CandidateRepository.
func (r *candidateRepository) UpdateQuestionCount(id string, count int) error {
	return r.update(id, map[string]interface{}{
		"question_count": count,
		"updated_at":     time.Now(),
	})
}

// UpdateError implements CandidateRepository.
func (r *candidateRepository) UpdateError(id string, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

func (r *candidateRepository) update(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Candidate{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}

	return nil
}
