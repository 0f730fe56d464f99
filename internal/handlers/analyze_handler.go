package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/repositories"
	"adkrecruit/interview-pipeline/internal/services"
)

type AnalyzeHandler struct {
	scorer        services.RubricScorerService
	assembler     services.ReportAssemblerService
	candidateRepo repositories.CandidateRepository
}

func NewAnalyzeHandler(
	scorer services.RubricScorerService,
	assembler services.ReportAssemblerService,
	candidateRepo repositories.CandidateRepository,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		scorer:        scorer,
		assembler:     assembler,
		candidateRepo: candidateRepo,
	}
}

// HandleAnalyze scores an interview transcript against the question rubrics
// and assembles the final report. This is the one endpoint that rejects bad
// input instead of degrading: without questions and a transcript there is
// nothing meaningful to score.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := validateAnalyzeRequest(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result := h.scorer.Score(c.Context(), req.Questions, req.Transcript)
	report := h.assembler.AssembleAndPersist(c.Context(), req.CandidateID, len(req.Questions), result)

	if h.candidateRepo != nil {
		if err := h.candidateRepo.UpdateStatus(req.CandidateID, models.StatusScored); err != nil {
			log.Printf("⚠️ Failed to mark candidate %s scored: %v", req.CandidateID, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func validateAnalyzeRequest(req *models.AnalyzeRequest) error {
	if strings.TrimSpace(req.CandidateID) == "" {
		return fmt.Errorf("candidate_id is required")
	}
	if len(req.Questions) == 0 {
		return fmt.Errorf("questions must not be empty")
	}
	for i, q := range req.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("questions[%d] is missing an id", i)
		}
		if strings.TrimSpace(q.Q) == "" {
			return fmt.Errorf("questions[%d] is missing question text", i)
		}
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return fmt.Errorf("transcript must not be empty")
	}
	return nil
}
