package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"adkrecruit/interview-pipeline/internal/services"
)

type AudioHandler struct {
	artifacts services.ArtifactStore
}

func NewAudioHandler(artifacts services.ArtifactStore) *AudioHandler {
	return &AudioHandler{artifacts: artifacts}
}

// HandleGetAudio streams a stored question or answer recording by its
// artifact key, e.g. /audio/cand-1a2b3c4d/questions/q1.wav.
func (h *AudioHandler) HandleGetAudio(c *fiber.Ctx) error {
	key := strings.TrimPrefix(c.Params("*"), "/")
	if key == "" || strings.Contains(key, "..") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid audio key",
		})
	}

	data, contentType, err := h.artifacts.Get(key)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("audio not found: %s", key),
		})
	}

	if contentType == "" {
		contentType = "audio/wav"
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
