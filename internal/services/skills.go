package services

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Default soft and other skill lists. The hard-skill list is the long tail
// and lives in an external file; these two are short enough to pin in code.
var (
	defaultSoftSkills = []string{
		"problem-solving", "communication", "teamwork", "leadership", "adaptability",
		"critical thinking", "time management", "creativity", "analytical skills",
	}
	defaultOtherSkills = []string{
		"Agile", "Jira", "project management", "customer service", "stakeholder management",
	}
)

// SkillTaxonomy holds the three disjoint skill lists. Read-only after load.
type SkillTaxonomy struct {
	HardSkills  []string
	SoftSkills  []string
	OtherSkills []string
}

// SkillBreakdown maps each category to the skills matched in a text, in
// taxonomy order.
type SkillBreakdown struct {
	HardSkills  []string `json:"hard_skills"`
	SoftSkills  []string `json:"soft_skills"`
	OtherSkills []string `json:"other_skills"`
}

type SkillCatalog interface {
	Taxonomy() SkillTaxonomy
	Categorize(text string) SkillBreakdown
}

type skillCatalog struct {
	taxonomy SkillTaxonomy
	patterns map[string]*regexp.Regexp
}

// NewSkillCatalog loads the hard-skill list from the given line-delimited
// file and combines it with the built-in soft and other skill lists. A
// missing or unreadable hard-skill file degrades to an empty hard-skill list
// with a warning; the catalog is still usable.
func NewSkillCatalog(hardSkillsPath string, logger *zap.Logger) SkillCatalog {
	hardSkills, err := loadSkillsFromFile(hardSkillsPath)
	if err != nil {
		logger.Warn("hard skills list unavailable, continuing with an empty list",
			zap.String("path", hardSkillsPath),
			zap.Error(err),
		)
		hardSkills = nil
	}

	taxonomy := SkillTaxonomy{
		HardSkills:  hardSkills,
		SoftSkills:  defaultSoftSkills,
		OtherSkills: defaultOtherSkills,
	}

	catalog := &skillCatalog{
		taxonomy: taxonomy,
		patterns: make(map[string]*regexp.Regexp),
	}

	for _, skills := range [][]string{taxonomy.HardSkills, taxonomy.SoftSkills, taxonomy.OtherSkills} {
		for _, skill := range skills {
			catalog.patterns[skill] = skillPattern(skill)
		}
	}

	return catalog
}

func (c *skillCatalog) Taxonomy() SkillTaxonomy {
	return c.taxonomy
}

// Categorize reports which taxonomy skills occur in text. Matching is
// case-insensitive and word-boundary anchored on both ends, so "C++" matches
// only the literal phrase and "Java" does not match "JavaScript". Presence
// only; occurrence counts are not tracked at this layer.
func (c *skillCatalog) Categorize(text string) SkillBreakdown {
	return SkillBreakdown{
		HardSkills:  c.matchCategory(c.taxonomy.HardSkills, text),
		SoftSkills:  c.matchCategory(c.taxonomy.SoftSkills, text),
		OtherSkills: c.matchCategory(c.taxonomy.OtherSkills, text),
	}
}

func (c *skillCatalog) matchCategory(skills []string, text string) []string {
	matched := []string{}
	for _, skill := range skills {
		if c.patterns[skill].MatchString(text) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// skillPattern builds a case-insensitive whole-word pattern for a skill name.
// Names are escaped first since many contain regex metacharacters ("C++",
// "Node.js"). \b does not sit next to non-word runes, so boundaries are only
// anchored where the name starts or ends with a word character.
func skillPattern(skill string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(skill)

	left, right := "", ""
	runes := []rune(skill)
	if len(runes) > 0 {
		if isWordRune(runes[0]) {
			left = `\b`
		}
		if isWordRune(runes[len(runes)-1]) {
			right = `\b`
		}
	}

	return regexp.MustCompile(`(?i)` + left + escaped + right)
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func loadSkillsFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open skills file: %w", err)
	}
	defer file.Close()

	var skills []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			skills = append(skills, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}

	return skills, nil
}
