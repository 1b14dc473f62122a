package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
	"resumatch/resume-analyzer/internal/services"
)

type ResultHandler struct {
	analysisRepo repositories.AnalysisRepository
}

type analysisResult struct {
	AtsScore        float64                 `json:"ats_score"`
	SimilarityScore float64                 `json:"similarity_score"`
	Recommendation  string                  `json:"recommendation"`
	MissingSkills   []string                `json:"missing_skills"`
	PredictedRole   string                  `json:"predicted_role,omitempty"`
	RoleConfidence  float64                 `json:"role_confidence,omitempty"`
	Profile         *services.ResumeProfile `json:"profile,omitempty"`
}

type analysisResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *analysisResult `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

func NewResultHandler(analysisRepo repositories.AnalysisRepository) *ResultHandler {
	return &ResultHandler{
		analysisRepo: analysisRepo,
	}
}

// HandleGetResult handles GET /analyses/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	analysisID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Analysis not found",
		})
	}

	response := analysisResultResponse{
		ID:     analysis.ID.String(),
		Status: string(analysis.Status),
	}

	if analysis.Status == models.StatusCompleted {
		result := &analysisResult{MissingSkills: []string{}}

		if analysis.AtsScore != nil {
			result.AtsScore = *analysis.AtsScore
		}
		if analysis.SimilarityScore != nil {
			result.SimilarityScore = *analysis.SimilarityScore
		}
		if analysis.Recommendation != nil {
			result.Recommendation = *analysis.Recommendation
		}
		if analysis.MissingSkills != nil && *analysis.MissingSkills != "" {
			result.MissingSkills = strings.Split(*analysis.MissingSkills, ", ")
		}
		if analysis.PredictedRole != nil {
			result.PredictedRole = *analysis.PredictedRole
		}
		if analysis.RoleConfidence != nil {
			result.RoleConfidence = *analysis.RoleConfidence
		}
		if analysis.ProfileJSON != nil {
			var profile services.ResumeProfile
			if err := json.Unmarshal([]byte(*analysis.ProfileJSON), &profile); err == nil {
				result.Profile = &profile
			}
		}

		response.Result = result
	}

	if analysis.Status == models.StatusFailed && analysis.ErrorMessage != nil {
		response.ErrorMessage = analysis.ErrorMessage
	}

	return c.JSON(response)
}
