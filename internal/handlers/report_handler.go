package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/repositories"
)

type ReportHandler struct {
	reportRepo repositories.ReportRepository
}

func NewReportHandler(reportRepo repositories.ReportRepository) *ReportHandler {
	return &ReportHandler{reportRepo: reportRepo}
}

// HandleGetReport returns the latest stored report for a candidate.
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	candidateID := c.Params("candidateID")
	if candidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate id is required",
		})
	}

	record, err := h.reportRepo.FindLatestByCandidate(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("no report found for candidate %s", candidateID),
		})
	}

	var report models.Report
	if err := json.Unmarshal([]byte(record.ReportJSON), &report); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to decode stored report: %v", err),
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.ReportResponse{
		CandidateID:    report.CandidateID,
		QuestionsCount: report.QuestionsCount,
		TotalScore:     report.Result.Aggregate.TotalScore,
		MaxScore:       report.Result.Aggregate.MaxScore,
		Recommendation: string(report.Result.Aggregate.Recommendation),
		Report:         &report,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
	})
}
