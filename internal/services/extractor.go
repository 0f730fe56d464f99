package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"adkrecruit/interview-pipeline/internal/models"
)

// extractPromptPrefix caps how much anonymized resume text is sent to the
// generative backend.
const extractPromptPrefix = 6000

// fallbackSummaryPrefix is the summary length when the deterministic
// extractor runs.
const fallbackSummaryPrefix = 180

// skillVocabulary is the fixed keyword list the deterministic extractor
// matches against lowercased resume text.
var skillVocabulary = []string{
	"python", "java", "react", "node", "sql", "docker",
	"kubernetes", "gcp", "aws", "tensorflow", "pytorch",
}

// projectMarkers are the substrings that flag a line as describing a project.
var projectMarkers = []string{"project", "worked on"}

// ProfileExtractorService turns anonymized resume text into a structured
// profile. Extraction never fails: any backend or parse problem degrades
// silently to the deterministic keyword extractor.
type ProfileExtractorService interface {
	Extract(ctx context.Context, anonymizedText string) models.Profile
}

type profileExtractorService struct {
	generator TextGenerator
	model     string
}

func NewProfileExtractorService(generator TextGenerator, model string) ProfileExtractorService {
	return &profileExtractorService{
		generator: generator,
		model:     model,
	}
}

// Extract implements ProfileExtractorService.
func (e *profileExtractorService) Extract(ctx context.Context, anonymizedText string) models.Profile {
	if e.generator == nil {
		log.Println("⚠️  Profile extractor: generative backend not configured, using keyword fallback")
		return e.fallbackExtract(anonymizedText)
	}

	profile, err := e.extractWithModel(ctx, anonymizedText)
	if err != nil {
		log.Printf("⚠️  Profile extractor: falling back due to error: %v\n", err)
		return e.fallbackExtract(anonymizedText)
	}

	return profile
}

func (e *profileExtractorService) extractWithModel(ctx context.Context, anonymizedText string) (models.Profile, error) {
	prompt := buildExtractionPrompt(truncate(anonymizedText, extractPromptPrefix))

	response, err := e.generator.GenerateText(ctx, e.model, prompt, 1024, 0)
	if err != nil {
		return models.Profile{}, fmt.Errorf("extraction call failed: %w", err)
	}

	var wire struct {
		Skills          []string         `json:"skills"`
		Projects        []models.Project `json:"projects"`
		ExperienceYears *float64         `json:"experience_years"`
		Education       []string         `json:"education"`
		Summary         string           `json:"summary"`
	}
	if err := decodeModelJSON(response, &wire); err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{
		Skills:    wire.Skills,
		Projects:  wire.Projects,
		Education: wire.Education,
		Summary:   wire.Summary,
	}
	if wire.ExperienceYears != nil {
		years := int(*wire.ExperienceYears)
		profile.ExperienceYears = &years
	}
	normalizeProfile(&profile)

	return profile, nil
}

// fallbackExtract is the deterministic extractor: fixed skill vocabulary,
// project-marker line scan, summary prefix. Experience and education are left
// empty rather than guessed.
func (e *profileExtractorService) fallbackExtract(anonymizedText string) models.Profile {
	lower := strings.ToLower(anonymizedText)

	skills := []string{}
	for _, kw := range skillVocabulary {
		if strings.Contains(lower, kw) {
			skills = append(skills, kw)
		}
	}

	projects := []models.Project{}
	for _, line := range strings.Split(anonymizedText, "\n") {
		lowerLine := strings.ToLower(line)
		for _, marker := range projectMarkers {
			if strings.Contains(lowerLine, marker) {
				projects = append(projects, models.Project{
					Title:     truncate(strings.TrimSpace(line), 80),
					TechStack: []string{},
				})
				break
			}
		}
	}

	return models.Profile{
		Skills:    skills,
		Projects:  projects,
		Education: []string{},
		Summary:   truncate(anonymizedText, fallbackSummaryPrefix),
	}
}

func buildExtractionPrompt(anonymizedText string) string {
	return fmt.Sprintf(`Output MUST be valid JSON with keys:
skills: list[str],
projects: list[{title: str, description: str, tech_stack: list[str], role: str, years: str}],
experience_years: int or null,
education: list[str],
summary: str

ANONYMIZED_RESUME:
%s
Return JSON only.`, anonymizedText)
}

func normalizeProfile(p *models.Profile) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []models.Project{}
	}
	if p.Education == nil {
		p.Education = []string{}
	}
	for i := range p.Projects {
		if p.Projects[i].TechStack == nil {
			p.Projects[i].TechStack = []string{}
		}
	}
}
