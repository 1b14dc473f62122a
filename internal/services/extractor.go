package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// DocumentFormat tags the declared format of an uploaded resume.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// Document is an immutable byte blob plus its declared format. It is consumed
// once by the extractor and carries no ownership beyond that.
type Document struct {
	Data   []byte
	Format DocumentFormat
}

type TextExtractor interface {
	Extract(doc Document) (string, error)
	ExtractFile(path string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// Extract converts a raw document into plain text. PDF pages are concatenated
// in reading order; a page without a text layer contributes nothing, so a
// scanned-but-valid PDF yields an empty string rather than an error. DOCX
// paragraphs are joined with newlines.
func (e *textExtractor) Extract(doc Document) (string, error) {
	switch doc.Format {
	case FormatPDF:
		return extractPDF(doc.Data)
	case FormatDOCX:
		return extractDOCX(doc.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Format)
	}
}

// ExtractFile reads a document from disk, inferring the format from the file
// extension.
func (e *textExtractor) ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	format, err := FormatFromFilename(path)
	if err != nil {
		return "", err
	}

	return e.Extract(Document{Data: data, Format: format})
}

// FormatFromFilename maps a file extension to a document format.
func FormatFromFilename(name string) (DocumentFormat, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return FormatPDF, nil
	case strings.HasSuffix(lower, ".docx"):
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Err: err}
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Err: err}
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, para.String())
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
