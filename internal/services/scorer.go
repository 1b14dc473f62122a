package services

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// similarityRecommendThreshold splits the positive and negative
// recommendation messages. Tunable; the value carries no mathematical
// significance.
const similarityRecommendThreshold = 50.0

// embedCharBudget truncates both texts before embedding so they fit the
// model's context window.
const embedCharBudget = 512

const (
	recommendationPositive = "Your resume is a good match for the job description!"
	recommendationNegative = "Your resume does not match well with the job description."
)

// ScoreResult bundles every score computed for a resume against a job
// description.
type ScoreResult struct {
	AtsScore             float64  `json:"ats_score"`
	SimilarityScore      float64  `json:"similarity_score"`
	MissingSkills        []string `json:"missing_skills"`
	Recommendation       string   `json:"recommendation"`
	ResumeSkills         SkillBreakdown
	JobDescriptionSkills SkillBreakdown
}

type ScoringEngine interface {
	ATSScore(resumeText, jobText, role string) float64
	SemanticSimilarity(ctx context.Context, resumeText, jobText string) (float64, string, error)
	MissingHardSkills(resumeText, jobText string) []string
	Score(ctx context.Context, resumeText, jobText, role string) (*ScoreResult, error)
}

type scoringEngine struct {
	embedder Embedder
	catalog  SkillCatalog
}

func NewScoringEngine(embedder Embedder, catalog SkillCatalog) ScoringEngine {
	return &scoringEngine{
		embedder: embedder,
		catalog:  catalog,
	}
}

// ATSScore is the lexical keyword-overlap score: the multiset intersection of
// resume and job word tokens, plus the resume's occurrence count of the role
// string when one is given, over (total job tokens + 1), scaled to a
// percentage. Zero when the job text has no tokens. The formula is
// deliberately not clamped: heavy repetition of job terms or the role bonus
// can push it past 100.
func (s *scoringEngine) ATSScore(resumeText, jobText, role string) float64 {
	resumeCounts := TokenCounts(resumeText)
	jobCounts := TokenCounts(jobText)

	totalJobTokens := 0
	for _, count := range jobCounts {
		totalJobTokens += count
	}
	if totalJobTokens == 0 {
		return 0
	}

	common := 0
	for token, jobCount := range jobCounts {
		if resumeCount, ok := resumeCounts[token]; ok {
			common += min(resumeCount, jobCount)
		}
	}

	// The bonus looks up the whole lowercased role string as a single token
	// key, so multi-word roles contribute nothing.
	roleMention := 0
	if role != "" {
		roleMention = resumeCounts[strings.ToLower(role)]
	}

	return float64(common+roleMention) / float64(totalJobTokens+1) * 100
}

// SemanticSimilarity embeds both texts (truncated to the context budget) and
// returns their cosine similarity as a percentage, together with the
// deterministic recommendation message.
func (s *scoringEngine) SemanticSimilarity(ctx context.Context, resumeText, jobText string) (float64, string, error) {
	resumeVec, err := s.embedder.Embed(ctx, TruncateRunes(resumeText, embedCharBudget))
	if err != nil {
		return 0, "", fmt.Errorf("failed to embed resume: %w", err)
	}

	jobVec, err := s.embedder.Embed(ctx, TruncateRunes(jobText, embedCharBudget))
	if err != nil {
		return 0, "", fmt.Errorf("failed to embed job description: %w", err)
	}

	score := cosineSimilarity(resumeVec, jobVec) * 100
	recommendation := s.buildRecommendation(score, s.MissingHardSkills(resumeText, jobText))

	return score, recommendation, nil
}

// MissingHardSkills is the set difference between the job description's hard
// skills and the resume's, in taxonomy order.
func (s *scoringEngine) MissingHardSkills(resumeText, jobText string) []string {
	resumeSkills := make(map[string]struct{})
	for _, skill := range s.catalog.Categorize(resumeText).HardSkills {
		resumeSkills[skill] = struct{}{}
	}

	missing := []string{}
	for _, skill := range s.catalog.Categorize(jobText).HardSkills {
		if _, ok := resumeSkills[skill]; !ok {
			missing = append(missing, skill)
		}
	}
	return missing
}

// Score composes the ATS score, the semantic similarity, the per-text skill
// breakdowns, and the missing-skill delta into one result.
func (s *scoringEngine) Score(ctx context.Context, resumeText, jobText, role string) (*ScoreResult, error) {
	similarity, recommendation, err := s.SemanticSimilarity(ctx, resumeText, jobText)
	if err != nil {
		return nil, err
	}

	return &ScoreResult{
		AtsScore:             s.ATSScore(resumeText, jobText, role),
		SimilarityScore:      similarity,
		MissingSkills:        s.MissingHardSkills(resumeText, jobText),
		Recommendation:       recommendation,
		ResumeSkills:         s.catalog.Categorize(resumeText),
		JobDescriptionSkills: s.catalog.Categorize(jobText),
	}, nil
}

func (s *scoringEngine) buildRecommendation(similarity float64, missingSkills []string) string {
	recommendation := recommendationNegative
	if similarity >= similarityRecommendThreshold {
		recommendation = recommendationPositive
	}

	if len(missingSkills) > 0 {
		recommendation += fmt.Sprintf(
			"\nHowever, you are missing the following skills that are important for the job: %s",
			strings.Join(missingSkills, ", "),
		)
	}

	return recommendation
}

func cosineSimilarity(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
