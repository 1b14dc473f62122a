package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromFilename(t *testing.T) {
	format, err := FormatFromFilename("resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	format, err = FormatFromFilename("Resume.PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	format, err = FormatFromFilename("cv.docx")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, format)

	_, err = FormatFromFilename("resume.doc")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatFromFilename("resume.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractRejectsUnknownFormat(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.Extract(Document{Data: []byte("hello"), Format: "txt"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractCorruptPDF(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.Extract(Document{Data: []byte("not a pdf at all"), Format: FormatPDF})
	require.Error(t, err)

	var extraction *ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.Equal(t, FormatPDF, extraction.Format)
}

func TestExtractCorruptDOCX(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.Extract(Document{Data: []byte{0x00, 0x01, 0x02}, Format: FormatDOCX})
	require.Error(t, err)

	var extraction *ExtractionError
	require.ErrorAs(t, err, &extraction)
	assert.Equal(t, FormatDOCX, extraction.Format)
}

func TestExtractFileMissing(t *testing.T) {
	extractor := NewTextExtractor()

	_, err := extractor.ExtractFile("/nonexistent/resume.pdf")
	require.Error(t, err)
}
