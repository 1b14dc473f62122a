package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// VectorStore archives resume embeddings so later job descriptions can be
// matched against the analyzed corpus.
type VectorStore interface {
	InitCollection() error
	IndexResume(ctx context.Context, analysisID, documentID, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]ResumeMatch, error)
	DeleteResume(ctx context.Context, analysisID string) error
}

type ResumeMatch struct {
	AnalysisID string  `json:"analysis_id"`
	DocumentID string  `json:"document_id"`
	Score      float32 `json:"score"`
	Snippet    string  `json:"snippet"`
}

type qdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantStore(urlStr, apiKey, collectionName string, vectorSize uint64, logger *zap.Logger) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port; the REST port in most configs is 6333.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		logger:         logger,
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantStore) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Info("qdrant collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// IndexResume implements VectorStore.
func (q *qdrantStore) IndexResume(ctx context.Context, analysisID, documentID, text string, embedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"analysis_id": analysisID,
			"document_id": documentID,
			"doc_type":    "resume",
			"text":        TruncateRunes(text, 2000),
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert resume point: %w", err)
	}

	return nil
}

// SearchSimilar implements VectorStore.
func (q *qdrantStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]ResumeMatch, error) {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_type", "resume"),
		},
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search resumes: %w", err)
	}

	var matches []ResumeMatch
	for _, point := range points {
		match := ResumeMatch{Score: point.Score}

		if v := payloadString(point.Payload, "analysis_id"); v != "" {
			match.AnalysisID = v
		}
		if v := payloadString(point.Payload, "document_id"); v != "" {
			match.DocumentID = v
		}
		if v := payloadString(point.Payload, "text"); v != "" {
			match.Snippet = TruncateRunes(v, 300)
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// DeleteResume implements VectorStore.
func (q *qdrantStore) DeleteResume(ctx context.Context, analysisID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("analysis_id", analysisID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete resume points: %w", err)
	}

	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if v, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return v.StringValue
	}
	return ""
}
