package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"adkrecruit/interview-pipeline/internal/models"
)

type ReportRepository interface {
	Create(record *models.ReportRecord) error
	FindLatestByCandidate(candidateID string) (*models.ReportRecord, error)
	FindByCandidate(candidateID string) ([]models.ReportRecord, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create implements ReportRepository.
func (r *reportRepository) Create(record *models.ReportRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create report record: %w", err)
	}
	return nil
}

// FindLatestByCandidate implements ReportRepository.
func (r *reportRepository) FindLatestByCandidate(candidateID string) (*models.ReportRecord, error) {
	var record models.ReportRecord
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		First(&record).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("report not found")
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &record, nil
}

// FindByCandidate implements ReportRepository.
func (r *reportRepository) FindByCandidate(candidateID string) ([]models.ReportRecord, error) {
	var records []models.ReportRecord
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find reports: %w", err)
	}
	return records, nil
}
