package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// TextGenerator is the capability the generative-primary components depend on.
// A nil TextGenerator means the backend is unavailable and the component must
// take its deterministic fallback path immediately.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, maxTokens int32, temperature float32) (string, error)
}

// Embedder produces embeddings for question-bank retrieval.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// AudioTranscriber turns spoken-answer audio into text.
type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type GeminiService interface {
	TextGenerator
	Embedder
	AudioTranscriber
}

type geminiService struct {
	client     *genai.Client
	embedModel string
	sttModel   string
}

func NewGeminiService(apiKey, embedModel string) (GeminiService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:     client,
		embedModel: embedModel,
		sttModel:   "gemini-1.5-flash",
	}, nil
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, model, prompt string, maxTokens int32, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// TranscribeAudio implements AudioTranscriber via Gemini's multimodal input.
func (g *geminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText("Transcribe this interview answer verbatim. Return only the spoken words, no commentary."),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.sttModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	return resp.Text(), nil
}
