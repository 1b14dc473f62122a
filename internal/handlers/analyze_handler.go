package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
	"resumatch/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	scorer       services.ScoringEngine
	analysisRepo repositories.AnalysisRepository
	docRepo      repositories.DocumentRepository
	worker       services.Worker
}

type analyzeResponse struct {
	AtsScore             float64                 `json:"ats_score"`
	ResumeSkills         services.SkillBreakdown `json:"skills_extracted_from_resume"`
	JobDescriptionSkills services.SkillBreakdown `json:"skills_extracted_from_job_description"`
	SimilarityScore      float64                 `json:"semantic_similarity_score"`
	Recommendation       string                  `json:"recommendation"`
}

func NewAnalyzeHandler(
	scorer services.ScoringEngine,
	analysisRepo repositories.AnalysisRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		scorer:       scorer,
		analysisRepo: analysisRepo,
		docRepo:      docRepo,
		worker:       worker,
	}
}

// HandleAnalyze handles POST /analyze: synchronous scoring of resume text
// against a job description and target role.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.ResumeText == "" || req.JobDescription == "" || req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text, job_description and role are required",
		})
	}

	result, err := h.scorer.Score(c.Context(), req.ResumeText, req.JobDescription, req.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(analyzeResponse{
		AtsScore:             result.AtsScore,
		ResumeSkills:         result.ResumeSkills,
		JobDescriptionSkills: result.JobDescriptionSkills,
		SimilarityScore:      result.SimilarityScore,
		Recommendation:       result.Recommendation,
	})
}

// HandleCreateAnalysis handles POST /analyses: queues an uploaded document
// for asynchronous analysis by the worker pool.
func (h *AnalyzeHandler) HandleCreateAnalysis(c *fiber.Ctx) error {
	var req models.CreateAnalysisRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.DocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "document_id is required",
		})
	}

	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document_id format",
		})
	}

	if _, err := h.docRepo.FindByID(docID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Document not found",
		})
	}

	analysis := &models.Analysis{
		ID:             uuid.New(),
		DocumentID:     docID,
		JobDescription: req.JobDescription,
		Role:           req.Role,
		Status:         models.StatusQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.analysisRepo.Create(analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create analysis job",
		})
	}

	h.worker.EnqueueJob(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CreateAnalysisResponse{
		ID:     analysis.ID.String(),
		Status: string(models.StatusQueued),
	})
}
