package handlers

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/services"
)

type AnswerHandler struct {
	stt       services.SpeechToTextService
	artifacts services.ArtifactStore
	storage   services.StorageService
}

func NewAnswerHandler(stt services.SpeechToTextService, artifacts services.ArtifactStore, storage services.StorageService) *AnswerHandler {
	return &AnswerHandler{
		stt:       stt,
		artifacts: artifacts,
		storage:   storage,
	}
}

// HandleAnswer accepts a WAV recording of a candidate answer, stores it,
// transcribes it and stores the transcript alongside the audio.
func (h *AnswerHandler) HandleAnswer(c *fiber.Ctx) error {
	candidateID := c.FormValue("candidate_id")
	questionID := c.FormValue("question_id")
	if candidateID == "" || questionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_id and question_id are required",
		})
	}

	audioFile, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file is required",
		})
	}

	tmpPath, err := h.storage.SaveTempFile(audioFile, ".wav")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save audio file: %v", err),
		})
	}
	defer os.Remove(tmpPath)

	audio, err := os.ReadFile(tmpPath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read audio file: %v", err),
		})
	}

	audioKey := services.AnswerAudioKey(candidateID, questionID)
	if _, err := h.artifacts.PutBytes(audioKey, audio, "audio/wav"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store answer audio: %v", err),
		})
	}

	transcript, err := h.stt.Transcribe(c.Context(), audio)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to transcribe answer: %v", err),
		})
	}

	if _, err := h.artifacts.PutText(services.AnswerTranscriptKey(candidateID, questionID), transcript); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store transcript: %v", err),
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.AnswerResponse{
		CandidateID: candidateID,
		QuestionID:  questionID,
		Transcript:  transcript,
		AudioKey:    audioKey,
	})
}
