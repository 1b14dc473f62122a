package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
)

// Analyzer drives the full pipeline for a queued analysis: extract text,
// parse the profile, score against the job description, predict the role,
// persist, and index the resume embedding for later similarity search.
type Analyzer interface {
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

type analyzer struct {
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	extractor    TextExtractor
	parser       ResumeParser
	scorer       ScoringEngine
	predictor    RolePredictor
	embedder     Embedder
	vectorStore  VectorStore // nil when qdrant is not configured
	maxRetries   int
	logger       *zap.Logger
}

func NewAnalyzer(
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	extractor TextExtractor,
	parser ResumeParser,
	scorer ScoringEngine,
	predictor RolePredictor,
	embedder Embedder,
	vectorStore VectorStore,
	maxRetries int,
	logger *zap.Logger,
) Analyzer {
	return &analyzer{
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		extractor:    extractor,
		parser:       parser,
		scorer:       scorer,
		predictor:    predictor,
		embedder:     embedder,
		vectorStore:  vectorStore,
		maxRetries:   maxRetries,
		logger:       logger,
	}
}

func (a *analyzer) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	if err := a.analysisRepo.UpdateStatus(analysisID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log := a.logger.With(zap.String("analysis_id", analysisID.String()))
	log.Info("starting analysis")

	analysis, err := a.analysisRepo.FindByID(analysisID)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, err.Error())
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	doc, err := a.docRepo.FindByID(analysis.DocumentID)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("resume document not found: %v", err))
		return fmt.Errorf("failed to get resume document: %w", err)
	}

	rawText, err := a.extractor.ExtractFile(doc.FilePath)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("failed to extract resume text: %v", err))
		return fmt.Errorf("failed to extract resume text: %w", err)
	}

	resumeText := NormalizeWhitespace(rawText)

	profile := a.parser.Parse(rawText)

	scores, err := a.scorer.Score(ctx, resumeText, analysis.JobDescription, analysis.Role)
	if err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("failed to score resume: %v", err))
		return fmt.Errorf("failed to score resume: %w", err)
	}

	update := &repositories.AnalysisUpdateData{
		AtsScore:        &scores.AtsScore,
		SimilarityScore: &scores.SimilarityScore,
		Recommendation:  &scores.Recommendation,
	}

	if len(scores.MissingSkills) > 0 {
		missing := strings.Join(scores.MissingSkills, ", ")
		update.MissingSkills = &missing
	}

	// A role outside the classifier's label set fails only the prediction
	// step, not the analysis.
	if analysis.Role != "" {
		prediction, err := a.predictor.Predict(resumeText, analysis.Role)
		var unknownRole *UnknownRoleError
		switch {
		case errors.As(err, &unknownRole):
			log.Warn("claimed role unknown to classifier, skipping prediction",
				zap.String("role", analysis.Role))
		case err != nil:
			a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("failed to predict role: %v", err))
			return fmt.Errorf("failed to predict role: %w", err)
		default:
			top := prediction.RankedRoles[0]
			update.PredictedRole = &top.Role
			update.RoleConfidence = &top.Confidence
		}
	}

	if profileJSON, err := json.Marshal(profile); err == nil {
		encoded := string(profileJSON)
		update.ProfileJSON = &encoded
	}

	if err := a.analysisRepo.UpdateResult(analysisID, update); err != nil {
		a.analysisRepo.UpdateError(analysisID, fmt.Sprintf("failed to save results: %v", err))
		return fmt.Errorf("failed to save results: %w", err)
	}

	a.indexResume(ctx, analysis.ID.String(), doc.ID.String(), resumeText, log)

	log.Info("analysis completed",
		zap.Float64("ats_score", scores.AtsScore),
		zap.Float64("similarity_score", scores.SimilarityScore),
	)
	return nil
}

// indexResume archives the resume embedding so the search endpoint can match
// future job descriptions against it. Best-effort: indexing failures never
// fail a completed analysis.
func (a *analyzer) indexResume(ctx context.Context, analysisID, documentID, resumeText string, log *zap.Logger) {
	if a.vectorStore == nil {
		return
	}

	embedding, err := a.embedder.EmbedWithRetry(ctx, resumeText, a.maxRetries)
	if err != nil {
		log.Warn("failed to embed resume for indexing", zap.Error(err))
		return
	}

	if err := a.vectorStore.IndexResume(ctx, analysisID, documentID, resumeText, embedding); err != nil {
		log.Warn("failed to index resume embedding", zap.Error(err))
	}
}
