package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/repositories"
	"adkrecruit/interview-pipeline/internal/services"
)

type PipelineHandler struct {
	pipeline         services.PipelineService
	storageService   services.StorageService
	candidateRepo    repositories.CandidateRepository
	maxFileSize      int64
	defaultQuestions int
}

func NewPipelineHandler(
	pipeline services.PipelineService,
	storageService services.StorageService,
	candidateRepo repositories.CandidateRepository,
	maxFileSize int64,
	defaultQuestions int,
) *PipelineHandler {
	return &PipelineHandler{
		pipeline:         pipeline,
		storageService:   storageService,
		candidateRepo:    candidateRepo,
		maxFileSize:      maxFileSize,
		defaultQuestions: defaultQuestions,
	}
}

// HandleStart accepts a resume PDF and runs the full intake pipeline
// synchronously, answering with the profile and generated questions.
func (h *PipelineHandler) HandleStart(c *fiber.Ctx) error {
	resume, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if resume.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	if !strings.HasSuffix(strings.ToLower(resume.Filename), ".pdf") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume must be a PDF file",
		})
	}

	nQuestions := h.defaultQuestions
	if raw := c.FormValue("n_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "n_questions must be a positive integer",
			})
		}
		nQuestions = n
	}

	filename, filePath, err := h.storageService.SaveFile(resume, "resume")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	candidate := models.Candidate{
		ID:               models.NewCandidateID(),
		OriginalFileName: resume.Filename,
		ResumePath:       filePath,
		Status:           models.StatusCreated,
	}
	if err := h.candidateRepo.Create(&candidate); err != nil {
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to create candidate record: %v", err),
		})
	}

	response, err := h.pipeline.Run(c.Context(), candidate.ID, filePath, nQuestions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":        fmt.Sprintf("pipeline failed: %v", err),
			"candidate_id": candidate.ID,
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
