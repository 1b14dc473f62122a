package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/services"
)

const defaultSearchLimit = 5

type SearchHandler struct {
	embedder    services.Embedder
	vectorStore services.VectorStore
}

type searchResponse struct {
	Matches []services.ResumeMatch `json:"matches"`
}

func NewSearchHandler(embedder services.Embedder, vectorStore services.VectorStore) *SearchHandler {
	return &SearchHandler{
		embedder:    embedder,
		vectorStore: vectorStore,
	}
}

// HandleSearch handles POST /search: finds previously analyzed resumes most
// similar to a job description.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	if h.vectorStore == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Resume search is not configured",
		})
	}

	var req models.SearchRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description is required",
		})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	embedding, err := h.embedder.Embed(c.Context(), req.JobDescription)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to embed job description",
		})
	}

	matches, err := h.vectorStore.SearchSimilar(c.Context(), embedding, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search resumes",
		})
	}

	if matches == nil {
		matches = []services.ResumeMatch{}
	}

	return c.JSON(searchResponse{Matches: matches})
}
