package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRecognizer struct {
	name string
	ok   bool
}

func (f fakeRecognizer) PersonName(text string) (string, bool) {
	return f.name, f.ok
}

func newTestParser(t *testing.T, recognizer EntityRecognizer) ResumeParser {
	t.Helper()
	return NewResumeParser("", recognizer, zap.NewNop())
}

func TestParseContactDetails(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("Contact me at jane.doe@example.com or 415-555-0199")

	require.NotNil(t, profile.Email)
	assert.Equal(t, "jane.doe@example.com", *profile.Email)

	require.NotNil(t, profile.MobileNumber)
	assert.Equal(t, "4155550199", *profile.MobileNumber)
}

func TestParseNameFromFirstLine(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("John Doe\njohn.doe@example.com\nExperience Acme Corp")

	require.NotNil(t, profile.Name)
	assert.Equal(t, "John Doe", *profile.Name)
}

func TestParseNameRejectsAddressLine(t *testing.T) {
	// A first line opening with a digit run is an address, not a name; the
	// recognizer fallback takes over.
	parser := newTestParser(t, fakeRecognizer{name: "Jane Roe", ok: true})

	profile := parser.Parse("221 Baker Street\nLondon\njane@example.com")

	require.NotNil(t, profile.Name)
	assert.Equal(t, "Jane Roe", *profile.Name)
}

func TestParseNameRejectsSingleToken(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("Resume\nsome text here")
	assert.Nil(t, profile.Name)
}

func TestParseSections(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	text := "John Doe\n" +
		"Education Bachelor of Science in CS, CGPA 3.9\n" +
		"Experience Backend engineer at Acme Corp\n" +
		"Projects Built a resume analyzer\n"

	profile := parser.Parse(text)

	require.NotNil(t, profile.Education)
	assert.Contains(t, *profile.Education, "Bachelor")

	require.NotNil(t, profile.Experience)
	assert.Contains(t, *profile.Experience, "Acme Corp")
	assert.NotContains(t, *profile.Experience, "resume analyzer")

	require.NotNil(t, profile.Projects)
	assert.Contains(t, *profile.Projects, "resume analyzer")
}

func TestParseSectionsAbsent(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("Jane Roe\njust a paragraph about nothing in particular")

	assert.Nil(t, profile.Education)
	assert.Nil(t, profile.Experience)
	assert.Nil(t, profile.Projects)
}

func TestParseSoftSkills(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("Known for leadership, teamwork and problem solving")

	assert.ElementsMatch(t, []string{"Leadership", "Teamwork", "Problem Solving"}, profile.SoftSkills)
}

func TestParseSkillsFromCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "skills.csv")
	content := "technical skills,soft skills\npython,excel\nkubernetes,communication\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	parser := NewResumeParser(csvPath, fakeRecognizer{}, zap.NewNop())

	profile := parser.Parse("Jane Roe\nPython and Kubernetes in production")
	assert.Equal(t, []string{"python", "kubernetes"}, profile.Skills)
}

func TestParseSkillsCSVMissingIsDegradedNotFatal(t *testing.T) {
	parser := NewResumeParser(filepath.Join(t.TempDir(), "missing.csv"), fakeRecognizer{}, zap.NewNop())

	profile := parser.Parse("Jane Roe\nPython everywhere")
	assert.Empty(t, profile.Skills)
}

func TestParseEmptyTextYieldsEmptyProfile(t *testing.T) {
	parser := newTestParser(t, fakeRecognizer{})

	profile := parser.Parse("")

	assert.Nil(t, profile.Name)
	assert.Nil(t, profile.Email)
	assert.Nil(t, profile.MobileNumber)
	assert.Empty(t, profile.Skills)
	assert.Nil(t, profile.Education)
	assert.Nil(t, profile.Experience)
	assert.Nil(t, profile.Projects)
	assert.Empty(t, profile.SoftSkills)
}
