package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"resumatch/resume-analyzer/internal/services"
)

type ExtractHandler struct {
	extractor services.TextExtractor
	parser    services.ResumeParser
}

type extractResponse struct {
	ExtractedText string                  `json:"extracted_text"`
	Profile       *services.ResumeProfile `json:"profile"`
}

func NewExtractHandler(extractor services.TextExtractor, parser services.ResumeParser) *ExtractHandler {
	return &ExtractHandler{
		extractor: extractor,
		parser:    parser,
	}
}

// HandleExtract handles POST /resumes/extract: extracts the plain text of an
// uploaded resume and parses the structured profile out of it in one call.
// Nothing is persisted; the document is consumed and discarded.
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume file provided. Upload a PDF or DOCX under the 'resume' field.",
		})
	}

	format, err := services.FormatFromFilename(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Only PDF and DOCX resumes are accepted.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to open uploaded file: %v", err),
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to read uploaded file: %v", err),
		})
	}

	rawText, err := h.extractor.Extract(services.Document{Data: data, Format: format})
	if err != nil {
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, services.ErrUnsupportedFormat) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(extractResponse{
		ExtractedText: rawText,
		Profile:       h.parser.Parse(rawText),
	})
}
