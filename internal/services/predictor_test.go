package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPredictor(t *testing.T) RolePredictor {
	t.Helper()

	vectorizer := VectorizerArtifact{
		Vocabulary: map[string]int{"python": 0, "java": 1, "sql": 2},
		IDF:        []float64{1, 1, 1},
	}
	classifier := ClassifierArtifact{
		Layers: []DenseLayer{
			{
				Weights: [][]float64{
					{2, 0, 1},
					{0, 2, 0},
					{1, 0, 2},
				},
				Bias: []float64{0, 0, 0},
			},
		},
	}
	labels := []string{"Data Scientist", "Backend Developer", "Data Analyst"}

	predictor, err := NewRolePredictorFromArtifacts(vectorizer, classifier, labels)
	require.NoError(t, err)
	return predictor
}

func TestPredictUnknownRole(t *testing.T) {
	predictor := newTestPredictor(t)

	_, err := predictor.Predict("python and sql everywhere", "Astronaut")
	require.Error(t, err)

	var unknownRole *UnknownRoleError
	require.ErrorAs(t, err, &unknownRole)
	assert.Equal(t, "Astronaut", unknownRole.Role)
}

func TestPredictConfidencesSumToHundred(t *testing.T) {
	predictor := newTestPredictor(t)

	prediction, err := predictor.Predict("python sql python", "Data Scientist")
	require.NoError(t, err)

	require.Len(t, prediction.RankedRoles, 3)

	var sum float64
	for _, role := range prediction.RankedRoles {
		sum += role.Confidence
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestPredictRankingSortedDescending(t *testing.T) {
	predictor := newTestPredictor(t)

	prediction, err := predictor.Predict("python sql python sql", "Data Analyst")
	require.NoError(t, err)

	for i := 1; i < len(prediction.RankedRoles); i++ {
		assert.GreaterOrEqual(t,
			prediction.RankedRoles[i-1].Confidence,
			prediction.RankedRoles[i].Confidence,
		)
	}

	// The claimed role's confidence is its own probability, independent of
	// rank position.
	assert.Equal(t, "Data Analyst", prediction.GivenRole)
	assert.Greater(t, prediction.Confidence, 0.0)
}

func TestPredictTiesKeepLabelOrder(t *testing.T) {
	predictor := newTestPredictor(t)

	// "python java" activates Data Scientist and Backend Developer with the
	// same logit; the stable sort keeps label-list order between them.
	prediction, err := predictor.Predict("python java", "Backend Developer")
	require.NoError(t, err)

	assert.Equal(t, "Data Scientist", prediction.RankedRoles[0].Role)
	assert.Equal(t, "Backend Developer", prediction.RankedRoles[1].Role)
	assert.InDelta(t, prediction.RankedRoles[0].Confidence, prediction.RankedRoles[1].Confidence, 1e-9)
}

func TestPredictClaimedConfidenceMatchesRanking(t *testing.T) {
	predictor := newTestPredictor(t)

	prediction, err := predictor.Predict("sql sql sql", "Data Analyst")
	require.NoError(t, err)

	assert.Equal(t, "Data Analyst", prediction.RankedRoles[0].Role)
	assert.InDelta(t, prediction.RankedRoles[0].Confidence, prediction.Confidence, 1e-9)
}

func TestPredictUnseenVocabularyStillTotal(t *testing.T) {
	predictor := newTestPredictor(t)

	// No token maps into the vocabulary; the transform is a zero vector and
	// softmax still yields a uniform, total distribution.
	prediction, err := predictor.Predict("haskell prolog erlang", "Data Scientist")
	require.NoError(t, err)

	for _, role := range prediction.RankedRoles {
		assert.InDelta(t, 100.0/3.0, role.Confidence, 1e-9)
	}
}

func TestNewRolePredictorValidatesShapes(t *testing.T) {
	vectorizer := VectorizerArtifact{
		Vocabulary: map[string]int{"python": 0, "java": 1},
		IDF:        []float64{1},
	}
	_, err := NewRolePredictorFromArtifacts(vectorizer, ClassifierArtifact{}, nil)
	require.Error(t, err)

	vectorizer.IDF = []float64{1, 1}
	classifier := ClassifierArtifact{
		Layers: []DenseLayer{
			{Weights: [][]float64{{1, 0}, {0, 1}}, Bias: []float64{0, 0}},
		},
	}

	_, err = NewRolePredictorFromArtifacts(vectorizer, classifier, []string{"only one label"})
	require.Error(t, err)

	_, err = NewRolePredictorFromArtifacts(vectorizer, classifier, []string{"a", "b"})
	require.NoError(t, err)
}
