package main

import (
	"context"
	"log"

	"resume-optimizer/internal/config"
	"resume-optimizer/internal/repositories"
	"resume-optimizer/internal/services"
)

// Rebuilds the Qdrant job index from the jobs table. Run after wiping the
// collection or changing the embedding model.
func main() {
	log.Println("🚀 Starting job index rebuild...")

	// Load configuration
	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	jobIndex, err := services.NewJobIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := jobIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	jobRepo := repositories.NewJobRepository(db)
	chunker := services.NewTextChunker()

	ctx := context.Background()

	jobs, err := jobRepo.FindAll()
	if err != nil {
		log.Fatalf("❌ Failed to load jobs: %v", err)
	}

	log.Printf("📋 Found %d jobs to index\n", len(jobs))

	successCount := 0
	failCount := 0

	for _, job := range jobs {
		log.Printf("📄 Indexing job %s (%s at %s)", job.ID, job.Title, job.Company)

		// Drop stale points before re-inserting.
		if err := jobIndex.DeleteJob(ctx, job.ID); err != nil {
			log.Printf("⚠️  Failed to clear old points for job %s: %v", job.ID, err)
		}

		chunks := chunker.ChunkText(job.Description, 1000, 200)
		if len(chunks) == 0 {
			log.Printf("⚠️  Job %s has no indexable description, skipping", job.ID)
			continue
		}

		embeddings := make([][]float32, 0, len(chunks))
		embedFailed := false
		for _, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("❌ Failed to embed chunk for job %s: %v", job.ID, err)
				embedFailed = true
				break
			}
			embeddings = append(embeddings, embedding)
		}
		if embedFailed {
			failCount++
			continue
		}

		if err := jobIndex.IndexJob(ctx, job.ID, job.UserID, chunks, embeddings); err != nil {
			log.Printf("❌ Failed to index job %s: %v", job.ID, err)
			failCount++
			continue
		}

		successCount++
	}

	log.Printf("✅ Index rebuild finished: %d indexed, %d failed\n", successCount, failCount)
}
