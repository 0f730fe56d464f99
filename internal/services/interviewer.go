package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"adkrecruit/interview-pipeline/internal/models"
)

// profileSummaryPrefix caps the profile summary embedded in the generation
// prompt; maxProfileProjects caps how many projects are described.
const (
	profileSummaryPrefix = 4000
	maxProfileProjects   = 6
	questionMaxTokens    = 800
)

// QuestionGeneratorService produces tailored interview questions with
// ideal-answer rubrics. The generative path is primary; any backend error or
// malformed response switches the whole call to the deterministic fallback —
// backend and fallback questions are never mixed within one call.
type QuestionGeneratorService interface {
	Generate(ctx context.Context, profile models.Profile, n int) []models.Question
	GenerateWithAudio(ctx context.Context, profile models.Profile, candidateID string, n int) []models.Question
}

type questionGeneratorService struct {
	generator TextGenerator
	model     string
	embedder  Embedder
	qdrant    QdrantService
	tts       TextToSpeechService
	artifacts ArtifactStore
}

func NewQuestionGeneratorService(
	generator TextGenerator,
	model string,
	embedder Embedder,
	qdrant QdrantService,
	tts TextToSpeechService,
	artifacts ArtifactStore,
) QuestionGeneratorService {
	return &questionGeneratorService{
		generator: generator,
		model:     model,
		embedder:  embedder,
		qdrant:    qdrant,
		tts:       tts,
		artifacts: artifacts,
	}
}

// Generate implements QuestionGeneratorService.
func (g *questionGeneratorService) Generate(ctx context.Context, profile models.Profile, n int) []models.Question {
	if n <= 0 {
		return []models.Question{}
	}

	if g.generator == nil {
		log.Println("⚠️  Question generator: generative backend not configured, using deterministic fallback")
		return FallbackQuestions(profile, n)
	}

	questions, err := g.generateWithModel(ctx, profile, n)
	if err != nil {
		log.Printf("⚠️  Question generator: falling back due to error: %v\n", err)
		return FallbackQuestions(profile, n)
	}

	return questions
}

// GenerateWithAudio generates questions and synthesizes each one into the
// artifact store under {candidate_id}/questions/{qid}.wav. Audio synthesis
// failures are logged and leave AudioKey empty; they never drop a question.
func (g *questionGeneratorService) GenerateWithAudio(ctx context.Context, profile models.Profile, candidateID string, n int) []models.Question {
	questions := g.Generate(ctx, profile, n)

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = fmt.Sprintf("q%s", uuid.New().String()[:6])
		}

		if g.tts == nil || g.artifacts == nil {
			continue
		}

		audio, err := g.tts.Synthesize(ctx, questions[i].Q)
		if err != nil {
			log.Printf("⚠️  Question generator: audio synthesis failed for %s: %v\n", questions[i].ID, err)
			continue
		}

		key := QuestionAudioKey(candidateID, questions[i].ID)
		if _, err := g.artifacts.PutBytes(key, audio, "audio/wav"); err != nil {
			log.Printf("⚠️  Question generator: failed to store audio for %s: %v\n", questions[i].ID, err)
			continue
		}
		questions[i].AudioKey = key
	}

	return questions
}

func (g *questionGeneratorService) generateWithModel(ctx context.Context, profile models.Profile, n int) ([]models.Question, error) {
	prompt := g.buildGenerationPrompt(ctx, profile, n)

	response, err := g.generator.GenerateText(ctx, g.model, prompt, questionMaxTokens, 0)
	if err != nil {
		return nil, fmt.Errorf("question generation call failed: %w", err)
	}

	var wire struct {
		Questions []models.Question `json:"questions"`
	}
	if err := decodeModelJSON(response, &wire); err != nil {
		return nil, err
	}

	if len(wire.Questions) < 1 {
		return nil, fmt.Errorf("%w: empty question list", ErrMalformedOutput)
	}

	// Fill missing ids sequentially, then take the first n.
	for i := range wire.Questions {
		if wire.Questions[i].ID == "" {
			wire.Questions[i].ID = fmt.Sprintf("q%d", i+1)
		}
	}
	if len(wire.Questions) > n {
		wire.Questions = wire.Questions[:n]
	}

	return wire.Questions, nil
}

func (g *questionGeneratorService) buildGenerationPrompt(ctx context.Context, profile models.Profile, n int) string {
	projects := profile.Projects
	if len(projects) > maxProfileProjects {
		projects = projects[:maxProfileProjects]
	}

	snippet := map[string]interface{}{
		"summary":  truncate(profile.Summary, profileSummaryPrefix),
		"skills":   profile.Skills,
		"projects": projects,
	}
	snippetJSON, _ := json.MarshalIndent(snippet, "", "  ")

	var b strings.Builder
	b.WriteString("You are an interview question generator. Input: an anonymized candidate profile. ")
	b.WriteString("Output: valid JSON only with key 'questions' containing a list of objects with keys: ")
	b.WriteString("id (string), q (question string), ideal (ideal answer string). ")
	fmt.Fprintf(&b, "Generate exactly %d technical questions tailored to the candidate's projects and skills.", n)

	if exemplars := g.retrieveExemplars(ctx, profile); exemplars != "" {
		b.WriteString("\n\nEXEMPLAR QUESTIONS (style reference only, do not copy verbatim):\n")
		b.WriteString(exemplars)
	}

	b.WriteString("\n\nCandidateProfile:\n")
	b.Write(snippetJSON)

	return b.String()
}

// retrieveExemplars pulls similar question-bank chunks from Qdrant to ground
// the prompt. Any failure returns "" — retrieval is never fatal.
func (g *questionGeneratorService) retrieveExemplars(ctx context.Context, profile models.Profile) string {
	if g.embedder == nil || g.qdrant == nil {
		return ""
	}

	query := profile.Summary
	if query == "" {
		query = strings.Join(profile.Skills, " ")
	}
	if query == "" {
		return ""
	}

	embedding, err := g.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Question generator: exemplar embedding failed: %v\n", err)
		return ""
	}

	results, err := g.qdrant.SearchSimilar(ctx, embedding, DocTypeQuestionBank, 3)
	if err != nil {
		log.Printf("⚠️  Question generator: exemplar search failed: %v\n", err)
		return ""
	}

	return FormatRetrievedContext(results)
}

// FallbackQuestions is the deterministic generator: one question per project
// (title referenced verbatim), then round-robin over skills, then a generic
// question when the profile has neither. Same profile and n always yield a
// byte-identical question set.
func FallbackQuestions(profile models.Profile, n int) []models.Question {
	questions := make([]models.Question, 0, n)
	idx := 1

	for _, p := range profile.Projects {
		if idx > n {
			break
		}
		title := p.Title
		if title == "" {
			title = "Project"
		}
		questions = append(questions, models.Question{
			ID: fmt.Sprintf("q%d", idx),
			Q: fmt.Sprintf("Describe the architecture and your implementation for the project titled '%s'. "+
				"What were the main technical challenges and how did you solve them?", title),
			Ideal: "Should include architecture, technologies used, specific responsibilities, challenges, " +
				"and measurable outcomes.",
		})
		idx++
	}

	i := 0
	for idx <= n {
		var q, ideal string
		if len(profile.Skills) > 0 {
			sk := profile.Skills[i%len(profile.Skills)]
			q = fmt.Sprintf("Explain a non-trivial problem you solved using %s. "+
				"Walk through your approach and why you chose that technology.", sk)
			ideal = "Expected: clear problem statement, approach, code/algorithm-level details, tradeoffs, and alternatives."
		} else {
			q = "Describe a challenging technical problem you solved and how you approached it."
			ideal = "Expected: context, technical steps, tradeoffs, and impact."
		}

		questions = append(questions, models.Question{
			ID:    fmt.Sprintf("q%d", idx),
			Q:     q,
			Ideal: ideal,
		})
		idx++
		i++
	}

	return questions
}
