package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// VectorizerArtifact is the fitted state of the bag-of-words/TF-IDF
// transform: the trained vocabulary and per-term inverse document
// frequencies. Exported from the training pipeline, frozen here.
type VectorizerArtifact struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// ClassifierArtifact is the frozen weight stack of the role classifier. Each
// layer is a dense transform; hidden layers use ReLU and the final layer is
// normalized with softmax.
type ClassifierArtifact struct {
	Layers []DenseLayer `json:"layers"`
}

type DenseLayer struct {
	Weights [][]float64 `json:"weights"` // [outputs][inputs]
	Bias    []float64   `json:"bias"`
}

// RoleScore pairs a role label with its confidence percentage.
type RoleScore struct {
	Role       string  `json:"role"`
	Confidence float64 `json:"confidence"`
}

// RolePrediction reports the claimed role's confidence plus the full ranking
// over every label the classifier knows. Callers truncate the ranking as
// needed.
type RolePrediction struct {
	GivenRole   string      `json:"given_role"`
	Confidence  float64     `json:"confidence"`
	RankedRoles []RoleScore `json:"ranked_roles"`
}

type RolePredictor interface {
	Predict(resumeText, claimedRole string) (*RolePrediction, error)
	Labels() []string
}

type rolePredictor struct {
	vectorizer VectorizerArtifact
	classifier ClassifierArtifact
	labels     []string
	labelIndex map[string]int
}

// NewRolePredictor loads the fitted vectorizer, classifier weights, and label
// list from their JSON artifact files. The artifacts are opaque, externally
// versioned outputs of the training pipeline; nothing here depends on how
// they were produced.
func NewRolePredictor(vectorizerPath, classifierPath, labelsPath string) (RolePredictor, error) {
	var vectorizer VectorizerArtifact
	if err := loadJSONArtifact(vectorizerPath, &vectorizer); err != nil {
		return nil, fmt.Errorf("failed to load vectorizer artifact: %w", err)
	}

	var classifier ClassifierArtifact
	if err := loadJSONArtifact(classifierPath, &classifier); err != nil {
		return nil, fmt.Errorf("failed to load classifier artifact: %w", err)
	}

	var labels []string
	if err := loadJSONArtifact(labelsPath, &labels); err != nil {
		return nil, fmt.Errorf("failed to load label artifact: %w", err)
	}

	return NewRolePredictorFromArtifacts(vectorizer, classifier, labels)
}

// NewRolePredictorFromArtifacts builds a predictor from already-decoded
// artifacts, validating that the weight shapes line up.
func NewRolePredictorFromArtifacts(vectorizer VectorizerArtifact, classifier ClassifierArtifact, labels []string) (RolePredictor, error) {
	if len(vectorizer.IDF) != len(vectorizer.Vocabulary) {
		return nil, fmt.Errorf("vectorizer artifact mismatch: %d idf weights for %d vocabulary terms",
			len(vectorizer.IDF), len(vectorizer.Vocabulary))
	}
	for term, idx := range vectorizer.Vocabulary {
		if idx < 0 || idx >= len(vectorizer.IDF) {
			return nil, fmt.Errorf("vectorizer artifact mismatch: term %q has out-of-range index %d", term, idx)
		}
	}
	if len(classifier.Layers) == 0 {
		return nil, fmt.Errorf("classifier artifact has no layers")
	}

	inputs := len(vectorizer.Vocabulary)
	for i, layer := range classifier.Layers {
		if len(layer.Weights) != len(layer.Bias) {
			return nil, fmt.Errorf("classifier layer %d: %d weight rows for %d biases",
				i, len(layer.Weights), len(layer.Bias))
		}
		for _, row := range layer.Weights {
			if len(row) != inputs {
				return nil, fmt.Errorf("classifier layer %d: expected %d inputs, got %d",
					i, inputs, len(row))
			}
		}
		inputs = len(layer.Bias)
	}
	if inputs != len(labels) {
		return nil, fmt.Errorf("classifier outputs %d classes for %d labels", inputs, len(labels))
	}

	labelIndex := make(map[string]int, len(labels))
	for i, label := range labels {
		labelIndex[label] = i
	}

	return &rolePredictor{
		vectorizer: vectorizer,
		classifier: classifier,
		labels:     labels,
		labelIndex: labelIndex,
	}, nil
}

func (p *rolePredictor) Labels() []string {
	return p.labels
}

// Predict vectorizes the resume text through the fitted transform, runs the
// classifier forward pass, and reports the claimed role's probability plus
// the full descending ranking. Ties keep label-list order. A claimed role
// outside the trained label set fails with UnknownRoleError rather than
// defaulting.
func (p *rolePredictor) Predict(resumeText, claimedRole string) (*RolePrediction, error) {
	claimedIndex, ok := p.labelIndex[claimedRole]
	if !ok {
		return nil, &UnknownRoleError{Role: claimedRole}
	}

	probabilities := p.forward(p.transform(resumeText))

	ranked := make([]RoleScore, len(p.labels))
	for i, label := range p.labels {
		ranked[i] = RoleScore{Role: label, Confidence: probabilities[i] * 100}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	return &RolePrediction{
		GivenRole:   claimedRole,
		Confidence:  probabilities[claimedIndex] * 100,
		RankedRoles: ranked,
	}, nil
}

// transform is the TF-IDF encoding: term counts scaled by the fitted IDF
// weights, L2-normalized.
func (p *rolePredictor) transform(text string) []float64 {
	vector := make([]float64, len(p.vectorizer.Vocabulary))

	for token, count := range TokenCounts(text) {
		if idx, ok := p.vectorizer.Vocabulary[token]; ok {
			vector[idx] = float64(count) * p.vectorizer.IDF[idx]
		}
	}

	var norm float64
	for _, v := range vector {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vector {
			vector[i] /= norm
		}
	}

	return vector
}

func (p *rolePredictor) forward(input []float64) []float64 {
	activation := input
	for i, layer := range p.classifier.Layers {
		output := make([]float64, len(layer.Bias))
		for j, row := range layer.Weights {
			sum := layer.Bias[j]
			for k, w := range row {
				sum += w * activation[k]
			}
			output[j] = sum
		}

		if i < len(p.classifier.Layers)-1 {
			for j, v := range output {
				output[j] = math.Max(0, v)
			}
		} else {
			output = softmax(output)
		}
		activation = output
	}
	return activation
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, v := range logits {
		maxLogit = math.Max(maxLogit, v)
	}

	var sum float64
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = math.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func loadJSONArtifact(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
