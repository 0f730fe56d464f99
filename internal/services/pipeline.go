package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/repositories"
)

// PipelineService runs the resume intake flow end to end: parse, redact,
// extract a profile and generate interview questions, persisting every
// intermediate artifact along the way.
type PipelineService interface {
	Run(ctx context.Context, candidateID, resumePath string, nQuestions int) (*models.PipelineStartResponse, error)
}

type pipelineService struct {
	parser        PDFParserService
	redactor      RedactorService
	extractor     ProfileExtractorService
	questions     QuestionGeneratorService
	artifacts     ArtifactStore
	candidateRepo repositories.CandidateRepository
}

func NewPipelineService(
	parser PDFParserService,
	redactor RedactorService,
	extractor ProfileExtractorService,
	questions QuestionGeneratorService,
	artifacts ArtifactStore,
	candidateRepo repositories.CandidateRepository,
) PipelineService {
	return &pipelineService{
		parser:        parser,
		redactor:      redactor,
		extractor:     extractor,
		questions:     questions,
		artifacts:     artifacts,
		candidateRepo: candidateRepo,
	}
}

func (s *pipelineService) Run(ctx context.Context, candidateID, resumePath string, nQuestions int) (*models.PipelineStartResponse, error) {
	log.Printf("🚀 Starting pipeline for candidate: %s", candidateID)

	raw, err := os.ReadFile(resumePath)
	if err != nil {
		s.fail(candidateID, err)
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	originalLoc, err := s.artifacts.PutBytes(OriginalKey(candidateID), raw, "application/pdf")
	if err != nil {
		s.fail(candidateID, err)
		return nil, fmt.Errorf("failed to store original resume: %w", err)
	}

	doc, err := s.parser.ExtractDocument(resumePath)
	if err != nil {
		s.fail(candidateID, err)
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	log.Printf("📄 Parsed resume for %s: %d pages, %d characters", candidateID, doc.PageCount, len(doc.Text))
	text := CleanText(doc.Text)

	anonymized := s.redactor.Redact(text)
	anonymizedLoc, err := s.artifacts.PutText(AnonymizedKey(candidateID), anonymized)
	if err != nil {
		s.fail(candidateID, err)
		return nil, fmt.Errorf("failed to store anonymized resume: %w", err)
	}
	s.updateStatus(candidateID, models.StatusParsed)

	profile := s.extractor.Extract(ctx, anonymized)
	profileLoc, err := s.artifacts.PutJSON(ProfileKey(candidateID), profile)
	if err != nil {
		s.fail(candidateID, err)
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}

	questions := s.questions.GenerateWithAudio(ctx, profile, candidateID, nQuestions)
	s.updateStatus(candidateID, models.StatusQuestionsReady)
	if err := s.candidateRepo.UpdateQuestionCount(candidateID, len(questions)); err != nil {
		log.Printf("⚠️ Failed to update question count for %s: %v", candidateID, err)
	}

	log.Printf("✅ Pipeline complete for %s: %d skills, %d questions",
		candidateID, len(profile.Skills), len(questions))

	return &models.PipelineStartResponse{
		CandidateID: candidateID,
		Profile:     profile,
		Questions:   questions,
		Artifacts: models.Artifacts{
			Original:   originalLoc,
			Anonymized: anonymizedLoc,
			Profile:    profileLoc,
		},
	}, nil
}

func (s *pipelineService) updateStatus(candidateID string, status models.CandidateStatus) {
	if err := s.candidateRepo.UpdateStatus(candidateID, status); err != nil {
		log.Printf("⚠️ Failed to update status for %s: %v", candidateID, err)
	}
}

func (s *pipelineService) fail(candidateID string, cause error) {
	if err := s.candidateRepo.UpdateError(candidateID, cause.Error()); err != nil {
		log.Printf("⚠️ Failed to record error for %s: %v", candidateID, err)
	}
}
