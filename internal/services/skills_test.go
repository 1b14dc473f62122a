package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeHardSkillsFile(t *testing.T, skills []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "technical_skills_list.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(skills, "\n")), 0o644))
	return path
}

func TestCategorizeMatchesWholeWords(t *testing.T) {
	path := writeHardSkillsFile(t, []string{"Python", "Java", "SQL"})
	catalog := NewSkillCatalog(path, zap.NewNop())

	breakdown := catalog.Categorize("Senior JavaScript engineer with python and PostgreSQL experience")

	// "Java" must not match inside "JavaScript", "SQL" not inside "PostgreSQL".
	assert.Equal(t, []string{"Python"}, breakdown.HardSkills)
}

func TestCategorizeEscapesRegexMetacharacters(t *testing.T) {
	path := writeHardSkillsFile(t, []string{"C++", "Node.js", "C"})
	catalog := NewSkillCatalog(path, zap.NewNop())

	breakdown := catalog.Categorize("Ten years of C++ and Node.js")
	assert.Equal(t, []string{"C++", "Node.js", "C"}, breakdown.HardSkills)

	// "C++" must not be interpreted as a pattern; "CCC" contains no exact
	// occurrence of it.
	breakdown = catalog.Categorize("CCC")
	assert.Empty(t, breakdown.HardSkills)

	// "Nodexjs" would match if the dot stayed a metacharacter.
	breakdown = catalog.Categorize("Nodexjs only")
	assert.Empty(t, breakdown.HardSkills)
}

func TestCategorizeMultiWordSkills(t *testing.T) {
	path := writeHardSkillsFile(t, []string{"machine learning"})
	catalog := NewSkillCatalog(path, zap.NewNop())

	assert.Equal(t, []string{"machine learning"},
		catalog.Categorize("Applied Machine Learning at scale").HardSkills)
	assert.Empty(t, catalog.Categorize("machine translation and deep learning").HardSkills)
}

func TestCategorizeReturnsTaxonomyOrderWithoutDuplicates(t *testing.T) {
	path := writeHardSkillsFile(t, []string{"Go", "Python", "Docker"})
	catalog := NewSkillCatalog(path, zap.NewNop())

	breakdown := catalog.Categorize("Docker Docker Python and Go, more Go")
	assert.Equal(t, []string{"Go", "Python", "Docker"}, breakdown.HardSkills)
}

func TestCategorizeSoftAndOtherSkills(t *testing.T) {
	path := writeHardSkillsFile(t, nil)
	catalog := NewSkillCatalog(path, zap.NewNop())

	breakdown := catalog.Categorize("Strong communication, teamwork and Jira administration")
	assert.Equal(t, []string{"communication", "teamwork"}, breakdown.SoftSkills)
	assert.Equal(t, []string{"Jira"}, breakdown.OtherSkills)
}

func TestMissingHardSkillsFileDegradesToEmptyList(t *testing.T) {
	catalog := NewSkillCatalog(filepath.Join(t.TempDir(), "does-not-exist.txt"), zap.NewNop())

	taxonomy := catalog.Taxonomy()
	assert.Empty(t, taxonomy.HardSkills)
	assert.NotEmpty(t, taxonomy.SoftSkills)
	assert.NotEmpty(t, taxonomy.OtherSkills)

	breakdown := catalog.Categorize("python leadership")
	assert.Empty(t, breakdown.HardSkills)
	assert.Equal(t, []string{"leadership"}, breakdown.SoftSkills)
}
