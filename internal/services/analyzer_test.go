package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resumatch/resume-analyzer/internal/models"
	"resumatch/resume-analyzer/internal/repositories"
)

type fakeAnalysisRepo struct {
	analysis     *models.Analysis
	statuses     []models.AnalysisStatus
	result       *repositories.AnalysisUpdateData
	resultErr    error
	errorMessage string
}

func (f *fakeAnalysisRepo) Create(*models.Analysis) error { return nil }

func (f *fakeAnalysisRepo) FindByID(uuid.UUID) (*models.Analysis, error) {
	return f.analysis, nil
}

func (f *fakeAnalysisRepo) UpdateStatus(_ uuid.UUID, status models.AnalysisStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeAnalysisRepo) UpdateResult(_ uuid.UUID, data *repositories.AnalysisUpdateData) error {
	if f.resultErr != nil {
		return f.resultErr
	}
	f.result = data
	return nil
}

func (f *fakeAnalysisRepo) UpdateError(_ uuid.UUID, msg string) error {
	f.errorMessage = msg
	return nil
}

func (f *fakeAnalysisRepo) FindPendingJobs(int) ([]models.Analysis, error) {
	return nil, nil
}

type fakeDocRepo struct {
	doc *models.Document
}

func (f *fakeDocRepo) Create(*models.Document) error { return nil }

func (f *fakeDocRepo) FindByID(uuid.UUID) (*models.Document, error) {
	return f.doc, nil
}

type fakeFileExtractor struct {
	text string
}

func (f *fakeFileExtractor) Extract(Document) (string, error) { return f.text, nil }

func (f *fakeFileExtractor) ExtractFile(string) (string, error) { return f.text, nil }

func newAnalyzerFixture(t *testing.T, resumeText, role string) (*fakeAnalysisRepo, RolePredictor, Analyzer) {
	t.Helper()

	doc := &models.Document{ID: uuid.New(), FilePath: "resume.pdf"}
	repo := &fakeAnalysisRepo{
		analysis: &models.Analysis{
			ID:             uuid.New(),
			DocumentID:     doc.ID,
			JobDescription: "sql analytics role",
			Role:           role,
			Status:         models.StatusQueued,
		},
	}

	embedder := constantEmbedder([]float32{1, 0})
	predictor := newTestPredictor(t)

	analyzerService := NewAnalyzer(
		repo,
		&fakeDocRepo{doc: doc},
		&fakeFileExtractor{text: resumeText},
		NewResumeParser("", fakeRecognizer{}, zap.NewNop()),
		newTestScorer(t, embedder, nil),
		predictor,
		embedder,
		nil,
		1,
		zap.NewNop(),
	)

	return repo, predictor, analyzerService
}

func TestProcessAnalysisStoresTopRoleWithItsOwnConfidence(t *testing.T) {
	// "sql sql sql" ranks Data Analyst first while the claimed role is Data
	// Scientist; the stored pair must be the top role and that role's own
	// confidence, not the claimed role's.
	repo, predictor, analyzerService := newAnalyzerFixture(t, "sql sql sql", "Data Scientist")

	require.NoError(t, analyzerService.ProcessAnalysis(context.Background(), repo.analysis.ID))
	require.NotNil(t, repo.result)

	prediction, err := predictor.Predict("sql sql sql", "Data Scientist")
	require.NoError(t, err)
	top := prediction.RankedRoles[0]
	require.NotEqual(t, prediction.GivenRole, top.Role)

	require.NotNil(t, repo.result.PredictedRole)
	require.NotNil(t, repo.result.RoleConfidence)
	assert.Equal(t, top.Role, *repo.result.PredictedRole)
	assert.InDelta(t, top.Confidence, *repo.result.RoleConfidence, 1e-9)
	assert.Greater(t, math.Abs(prediction.Confidence-*repo.result.RoleConfidence), 1e-3)
}

func TestProcessAnalysisUnknownRoleSkipsPrediction(t *testing.T) {
	repo, _, analyzerService := newAnalyzerFixture(t, "sql sql sql", "Astronaut")

	require.NoError(t, analyzerService.ProcessAnalysis(context.Background(), repo.analysis.ID))
	require.NotNil(t, repo.result)

	assert.Nil(t, repo.result.PredictedRole)
	assert.Nil(t, repo.result.RoleConfidence)
	assert.NotNil(t, repo.result.AtsScore)
}

func TestProcessAnalysisMarksFailedWhenSaveFails(t *testing.T) {
	repo, _, analyzerService := newAnalyzerFixture(t, "sql sql sql", "Data Scientist")
	repo.resultErr = errors.New("connection reset")

	err := analyzerService.ProcessAnalysis(context.Background(), repo.analysis.ID)
	require.Error(t, err)

	assert.Contains(t, repo.errorMessage, "failed to save results")
	assert.Nil(t, repo.result)
}
