package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/services"
)

// suggestedRolesLimit truncates the predictor's full ranking for the
// response.
const suggestedRolesLimit = 10

type PredictHandler struct {
	predictor services.RolePredictor
}

type predictResponse struct {
	GivenRole      string               `json:"given_role"`
	Confidence     float64              `json:"confidence"`
	SuggestedRoles []services.RoleScore `json:"suggested_roles"`
}

func NewPredictHandler(predictor services.RolePredictor) *PredictHandler {
	return &PredictHandler{
		predictor: predictor,
	}
}

// HandlePredict handles POST /predict: confidence for the claimed role plus
// the top alternative roles.
func (h *PredictHandler) HandlePredict(c *fiber.Ctx) error {
	var req models.PredictRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.ResumeText == "" || req.InputRole == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume_text and input_role are required",
		})
	}

	prediction, err := h.predictor.Predict(req.ResumeText, req.InputRole)
	if err != nil {
		var unknownRole *services.UnknownRoleError
		if errors.As(err, &unknownRole) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	suggested := prediction.RankedRoles
	if len(suggested) > suggestedRolesLimit {
		suggested = suggested[:suggestedRolesLimit]
	}

	return c.JSON(predictResponse{
		GivenRole:      prediction.GivenRole,
		Confidence:     prediction.Confidence,
		SuggestedRoles: suggested,
	})
}
