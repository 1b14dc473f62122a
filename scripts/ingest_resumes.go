package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"resumatch/resume-analyzer/internal/config"
	"resumatch/resume-analyzer/internal/logger"
	"resumatch/resume-analyzer/internal/services"
)

// Bulk-indexes a directory of resumes into the vector store so the search
// endpoint has a corpus to match job descriptions against.
func main() {
	dir := flag.String("dir", "./resumes", "directory of PDF/DOCX resumes to index")
	flag.Parse()

	log.Println("Starting resume ingestion...")

	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	embedder, err := services.NewGeminiEmbedder(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, zlog)
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	vectorStore, err := services.NewQdrantStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		zlog,
	)
	if err != nil {
		log.Fatalf("Failed to initialize Qdrant: %v", err)
	}

	if err := vectorStore.InitCollection(); err != nil {
		log.Fatalf("Failed to initialize collection: %v", err)
	}

	extractor := services.NewTextExtractor()
	chunker := services.NewTextChunker()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read resume directory %s: %v", *dir, err)
	}

	ctx := context.Background()
	successCount := 0
	failCount := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if _, err := services.FormatFromFilename(name); err != nil {
			continue
		}

		path := filepath.Join(*dir, name)
		log.Printf("Processing: %s", name)

		rawText, err := extractor.ExtractFile(path)
		if err != nil {
			log.Printf("  Failed to extract text: %v", err)
			failCount++
			continue
		}

		text := services.NormalizeWhitespace(rawText)
		if text == "" {
			log.Printf("  No text layer, skipping")
			failCount++
			continue
		}

		chunks := chunker.ChunkText(rawText, 1000, 200)
		log.Printf("  Extracted %d characters, %d chunks", len(text), len(chunks))

		stored := 0
		for i, chunk := range chunks {
			embedding, err := embedder.EmbedWithRetry(ctx, chunk, cfg.Worker.RetryMaxAttempts)
			if err != nil {
				log.Printf("  Failed to embed chunk %d: %v", i+1, err)
				continue
			}

			docID := fmt.Sprintf("%s_chunk_%d", strings.TrimSuffix(name, filepath.Ext(name)), i)
			if err := vectorStore.IndexResume(ctx, docID, name, chunk, embedding); err != nil {
				log.Printf("  Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++
		}

		log.Printf("  Stored %d/%d chunks", stored, len(chunks))
		successCount++
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("Ingestion summary: %d succeeded, %d failed", successCount, failCount)

	if failCount > 0 {
		os.Exit(1)
	}
}
