package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-optimizer/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(optID uuid.UUID)
}

type worker struct {
	optRepo          repositories.OptimizationRepository
	optimizerService OptimizerService
	jobQueue         chan uuid.UUID
	concurrency      int
	pollInterval     time.Duration
	wg               sync.WaitGroup
	stopChan         chan struct{}
}

func NewWorker(
	optRepo repositories.OptimizationRepository,
	optimizerService OptimizerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &worker{
		optRepo:          optRepo,
		optimizerService: optimizerService,
		jobQueue:         make(chan uuid.UUID, 100),
		concurrency:      concurrency,
		pollInterval:     pollInterval,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	// Poller picks up queued optimizations missed by direct enqueue, e.g.
	// requests accepted right before a restart.
	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(optID uuid.UUID) {
	select {
	case w.jobQueue <- optID:
		log.Printf("📥 Optimization %s enqueued\n", optID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue optimization %s\n", optID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case optID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing optimization %s\n", workerID, optID)
			if err := w.optimizerService.ProcessOptimization(ctx, optID); err != nil {
				log.Printf("❌ Worker #%d failed to process optimization %s: %v\n", workerID, optID, err)
			} else {
				log.Printf("✅ Worker #%d completed optimization %s\n", workerID, optID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting pending jobs poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.optRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending optimizations\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
