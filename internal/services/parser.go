package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"
)

// ResumeProfile is the structured record extracted from a resume. Every field
// is independently optional: a missing value means the heuristics found no
// recognizable occurrence, which is an expected outcome and never an error.
type ResumeProfile struct {
	Name         *string  `json:"name"`
	Email        *string  `json:"email"`
	MobileNumber *string  `json:"mobile_number"`
	Skills       []string `json:"skills"`
	Education    *string  `json:"education"`
	Experience   *string  `json:"experience"`
	Projects     *string  `json:"projects"`
	SoftSkills   []string `json:"soft_skills"`
}

// EntityRecognizer is the NER fallback used when positional heuristics fail.
type EntityRecognizer interface {
	PersonName(text string) (string, bool)
}

type ResumeParser interface {
	Parse(rawText string) *ResumeProfile
}

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,2}\s?\(?\d{1,4}\)?\s?\d{3}[-\s]?\d{4}|\d{10}|\(\d{3}\)\s?\d{3}-\d{4}|\d{3}-\d{3}-\d{4})\b`)
	nonDigit     = regexp.MustCompile(`[^0-9]`)

	// Lines that open with a short digit run are almost always street
	// addresses or ZIP fragments, not names.
	addressLinePattern = regexp.MustCompile(`^\d{1,3}[a-zA-Z ]+`)

	// Headers that terminate a captured resume section.
	sectionBoundaryPattern = regexp.MustCompile(`(?i)Skills|Experience|Projects|Certifications`)

	educationKeywords = []string{
		"B. Tech", "Bachelor", "Master", "PhD", "M.Sc", "Diploma", "Degree", "CGPA", "B.S.",
	}
	softSkillKeywords = []string{
		"Leadership", "Teamwork", "Problem Solving", "Critical Thinking",
		"Communication", "Adaptability", "Time Management", "Project Management",
	}

	// Header-like entries excluded from the skills CSV.
	csvHeaderEntries = []string{"technical skills", "soft skills"}
)

type resumeParser struct {
	skillsCSVPath string
	recognizer    EntityRecognizer
	logger        *zap.Logger
}

func NewResumeParser(skillsCSVPath string, recognizer EntityRecognizer, logger *zap.Logger) ResumeParser {
	return &resumeParser{
		skillsCSVPath: skillsCSVPath,
		recognizer:    recognizer,
		logger:        logger,
	}
}

// Parse runs every field heuristic over the extracted text. Sub-extractions
// are independent and best-effort; the parse as a whole always succeeds, with
// unfound fields left nil or empty.
func (p *resumeParser) Parse(rawText string) *ResumeProfile {
	text := NormalizeWhitespace(rawText)

	return &ResumeProfile{
		Name:         p.extractName(rawText, text),
		Email:        p.extractEmail(text),
		MobileNumber: p.extractMobileNumber(text),
		Skills:       p.extractSkillsFromCSV(text),
		Education:    extractSection("Education", text, educationKeywords),
		Experience:   extractSection("Experience", text, nil),
		Projects:     extractSection("Projects", text, nil),
		SoftSkills:   extractSoftSkills(text),
	}
}

// extractName tries the first non-empty line of the raw (pre-collapse) text:
// it must not open with a digit run and must hold at least two tokens.
// Falls back to the entity recognizer's first PERSON over the full text.
func (p *resumeParser) extractName(rawText, text string) *string {
	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !addressLinePattern.MatchString(line) && len(strings.Fields(line)) >= 2 {
			return &line
		}
		break
	}

	if name, ok := p.recognizer.PersonName(text); ok {
		return &name
	}
	return nil
}

func (p *resumeParser) extractEmail(text string) *string {
	if match := emailPattern.FindString(text); match != "" {
		return &match
	}
	return nil
}

// extractMobileNumber matches several phone shapes (bare 10 digits, dashed,
// parenthesized area code, optional country code) and normalizes the first
// match to digits only.
func (p *resumeParser) extractMobileNumber(text string) *string {
	match := phonePattern.FindString(text)
	if match == "" {
		return nil
	}
	digits := nonDigit.ReplaceAllString(match, "")
	return &digits
}

// extractSkillsFromCSV matches the entries of the optional skills CSV against
// the text. An absent or unreadable CSV yields an empty list, which is a
// degraded but valid state.
func (p *resumeParser) extractSkillsFromCSV(text string) []string {
	if p.skillsCSVPath == "" {
		return []string{}
	}

	entries, err := readCSVEntries(p.skillsCSVPath)
	if err != nil {
		p.logger.Warn("skills CSV unavailable, skills extraction may be incomplete",
			zap.String("path", p.skillsCSVPath),
			zap.Error(err),
		)
		return []string{}
	}

	lowered := strings.ToLower(text)

	matched := []string{}
	for _, entry := range entries {
		skill := strings.ToLower(strings.TrimSpace(entry))
		if skill == "" {
			continue
		}
		if skillPattern(skill).MatchString(lowered) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// readCSVEntries flattens every cell of the CSV into one list, dropping the
// two literal header-like entries.
func readCSVEntries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skills CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read skills CSV: %w", err)
	}

	var entries []string
	for _, record := range records {
		for _, cell := range record {
			if isCSVHeaderEntry(cell) {
				continue
			}
			entries = append(entries, cell)
		}
	}
	return entries, nil
}

func isCSVHeaderEntry(cell string) bool {
	for _, header := range csvHeaderEntries {
		if cell == header {
			return true
		}
	}
	return false
}

// extractSection captures the span from a section header up to the next
// recognized header or the end of text, case-insensitively. With keywords
// given, the capture narrows to the first line containing any of them.
func extractSection(sectionName, text string, keywords []string) *string {
	headerPattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(sectionName))
	loc := headerPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	end := len(text)
	if next := sectionBoundaryPattern.FindStringIndex(text[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}

	section := strings.TrimSpace(text[loc[0]:end])

	if len(keywords) > 0 {
		for _, line := range strings.Split(section, "\n") {
			if containsAnyFold(line, keywords) {
				trimmed := strings.TrimSpace(line)
				return &trimmed
			}
		}
		return nil
	}

	return &section
}

func containsAnyFold(line string, keywords []string) bool {
	lowered := strings.ToLower(line)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// extractSoftSkills is a plain substring membership test against a fixed
// keyword list. Set semantics: duplicates removed, order not guaranteed.
func extractSoftSkills(text string) []string {
	lowered := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, keyword := range softSkillKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			found[keyword] = struct{}{}
		}
	}

	matched := []string{}
	for keyword := range found {
		matched = append(matched, keyword)
	}
	return matched
}

// proseRecognizer backs the NER fallback with prose's pre-trained English
// model.
type proseRecognizer struct{}

func NewProseRecognizer() EntityRecognizer {
	return &proseRecognizer{}
}

func (r *proseRecognizer) PersonName(text string) (string, bool) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return "", false
	}

	for _, ent := range doc.Entities() {
		if ent.Label == "PERSON" {
			return strings.TrimSpace(ent.Text), true
		}
	}
	return "", false
}
