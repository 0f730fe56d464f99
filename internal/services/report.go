package services

import (
	"context"
	"encoding/json"
	"log"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/repositories"
)

// ReportAssemblerService wraps a score result with candidate metadata and
// persists it: durable store first, local filesystem when the durable write
// fails. Persistence problems are recorded in the report, never raised — a
// scoring call that produced a valid result must not fail because of where
// the report ends up living.
type ReportAssemblerService interface {
	AssembleAndPersist(ctx context.Context, candidateID string, questionCount int, result models.ScoreResult) models.Report
}

type reportAssemblerService struct {
	durable    ArtifactStore
	local      ArtifactStore
	reportRepo repositories.ReportRepository
}

// NewReportAssemblerService builds an assembler. durable may be nil (local
// becomes the only target); reportRepo may be nil (no report rows kept).
func NewReportAssemblerService(durable, local ArtifactStore, reportRepo repositories.ReportRepository) ReportAssemblerService {
	return &reportAssemblerService{
		durable:    durable,
		local:      local,
		reportRepo: reportRepo,
	}
}

// AssembleAndPersist implements ReportAssemblerService.
func (a *reportAssemblerService) AssembleAndPersist(ctx context.Context, candidateID string, questionCount int, result models.ScoreResult) models.Report {
	report := models.Report{
		CandidateID:    candidateID,
		QuestionsCount: questionCount,
		Result:         result,
	}

	key := ReportKey(candidateID)
	report = a.persist(report, key)
	a.record(report)

	return report
}

func (a *reportAssemblerService) persist(report models.Report, key string) models.Report {
	if a.durable != nil {
		location, err := a.durable.PutJSON(key, report)
		if err == nil {
			report.StorageLocation = location
			return report
		}

		log.Printf("⚠️  Report assembler: durable store write failed, using local fallback: %v\n", err)
		report.StorageError = err.Error()
	}

	if a.local == nil {
		log.Println("⚠️  Report assembler: no local store configured, report not persisted")
		return report
	}

	localPath, err := a.local.PutJSON(key, report)
	if err != nil {
		log.Printf("⚠️  Report assembler: local fallback write failed: %v\n", err)
		if report.StorageError == "" {
			report.StorageError = err.Error()
		}
		return report
	}

	report.LocalPath = localPath
	return report
}

// record inserts the queryable report row. Row insertion is best-effort; the
// artifact copy above is the report of record.
func (a *reportAssemblerService) record(report models.Report) {
	if a.reportRepo == nil {
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		log.Printf("⚠️  Report assembler: failed to marshal report row: %v\n", err)
		return
	}

	record := &models.ReportRecord{
		CandidateID:    report.CandidateID,
		QuestionsCount: report.QuestionsCount,
		TotalScore:     report.Result.Aggregate.TotalScore,
		MaxScore:       report.Result.Aggregate.MaxScore,
		Recommendation: string(report.Result.Aggregate.Recommendation),
		ReportJSON:     string(body),
	}
	if report.StorageLocation != "" {
		record.StorageLocation = &report.StorageLocation
	}

	if err := a.reportRepo.Create(record); err != nil {
		log.Printf("⚠️  Report assembler: failed to store report row: %v\n", err)
	}
}
