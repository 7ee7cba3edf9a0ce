package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"nutrack/internal/cache"
	"nutrack/internal/models"
	"nutrack/internal/repository"
	"nutrack/internal/vision"
)

// AnalysisJobWorker processes meal photo analysis jobs asynchronously. Jobs
// are tracked in the database for progress polling; completed results are
// cached in Redis until the client collects them.
type AnalysisJobWorker struct {
	jobRepo  repository.AnalysisJobRepository
	analyzer vision.Analyzer
	results  *cache.RedisClient

	jobQueue    chan models.AnalysisJobRequest
	workerCount int
	stopChan    chan struct{}
	wg          sync.WaitGroup
	running     bool
	mu          sync.RWMutex

	maxJobTimeout   time.Duration
	maxConcurrency  int64
	resultTTL       time.Duration
	cleanupInterval time.Duration
	jobRetention    time.Duration
}

func NewAnalysisJobWorker(
	jobRepo repository.AnalysisJobRepository,
	analyzer vision.Analyzer,
	results *cache.RedisClient,
	workerCount int,
) *AnalysisJobWorker {
	if workerCount <= 0 {
		workerCount = 3
	}

	return &AnalysisJobWorker{
		jobRepo:         jobRepo,
		analyzer:        analyzer,
		results:         results,
		jobQueue:        make(chan models.AnalysisJobRequest, 100),
		workerCount:     workerCount,
		stopChan:        make(chan struct{}),
		maxJobTimeout:   2 * time.Minute,
		maxConcurrency:  5,
		resultTTL:       30 * time.Minute,
		cleanupInterval: 30 * time.Minute,
		jobRetention:    24 * time.Hour,
	}
}

// ========== WORKER LIFECYCLE ==========

func (w *AnalysisJobWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}

	// Mark jobs stranded by a previous process as failed so clients stop
	// polling them; image payloads only live in the in-process queue.
	w.wg.Add(1)
	go w.failStrandedJobs()

	w.wg.Add(1)
	go w.cleanupRoutine()
}

func (w *AnalysisJobWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()
}

func (w *AnalysisJobWorker) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// SubmitJob enqueues a request, bounding the number of active jobs per user.
func (w *AnalysisJobWorker) SubmitJob(jobRequest models.AnalysisJobRequest) error {
	w.mu.RLock()
	if !w.running {
		w.mu.RUnlock()
		return fmt.Errorf("job worker is not running")
	}
	w.mu.RUnlock()

	activeJobs, err := w.jobRepo.GetActiveJobsCount(jobRequest.UserID)
	if err != nil {
		return fmt.Errorf("failed to check active jobs: %w", err)
	}
	if activeJobs >= w.maxConcurrency {
		return fmt.Errorf("user has too many active jobs (%d/%d)", activeJobs, w.maxConcurrency)
	}

	select {
	case w.jobQueue <- jobRequest:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("job queue is full, try again later")
	}
}

// ========== WORKER IMPLEMENTATION ==========

func (w *AnalysisJobWorker) worker(workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case jobRequest := <-w.jobQueue:
			w.processJob(jobRequest)
		}
	}
}

func (w *AnalysisJobWorker) processJob(jobRequest models.AnalysisJobRequest) {
	jobID := jobRequest.JobID

	ctx, cancel := context.WithTimeout(context.Background(), w.maxJobTimeout)
	defer cancel()

	// The client may have cancelled the job while it sat in the queue.
	if job, err := w.jobRepo.GetJobByID(jobID); err == nil && job.Status == models.JobStatusCancelled {
		return
	}

	if err := w.jobRepo.UpdateJobStatus(jobID, models.JobStatusProcessing, nil); err != nil {
		log.Printf("failed to mark job %s processing: %v", jobID, err)
		return
	}

	if len(jobRequest.Images) == 0 {
		errMsg := "no images attached to job"
		w.jobRepo.UpdateJobStatus(jobID, models.JobStatusFailed, &errMsg)
		return
	}

	_ = w.jobRepo.UpdateJobProgress(jobID, 30, models.JobStepAnalyzingImages)

	result, err := w.analyzer.Analyze(ctx, jobRequest.Images)
	if err != nil {
		errMsg := err.Error()
		w.jobRepo.UpdateJobStatus(jobID, models.JobStatusFailed, &errMsg)
		return
	}

	_ = w.jobRepo.UpdateJobProgress(jobID, 90, models.JobStepSavingResults)

	if w.results != nil {
		if err := w.results.StoreAnalysisResult(jobID, result, w.resultTTL); err != nil {
			errMsg := fmt.Sprintf("failed to cache analysis result: %v", err)
			w.jobRepo.UpdateJobStatus(jobID, models.JobStatusFailed, &errMsg)
			return
		}
	}

	if err := w.jobRepo.UpdateJobStatus(jobID, models.JobStatusCompleted, nil); err != nil {
		log.Printf("failed to mark job %s completed: %v", jobID, err)
	}
}

// ========== MAINTENANCE ROUTINES ==========

func (w *AnalysisJobWorker) failStrandedJobs() {
	defer w.wg.Done()

	jobs, err := w.jobRepo.GetPendingJobs(100)
	if err != nil {
		log.Printf("failed to load stranded jobs: %v", err)
		return
	}
	for _, job := range jobs {
		errMsg := "job abandoned by server restart, please resubmit"
		if err := w.jobRepo.UpdateJobStatus(job.ID, models.JobStatusFailed, &errMsg); err != nil {
			log.Printf("failed to fail stranded job %s: %v", job.ID, err)
		}
	}
	if len(jobs) > 0 {
		log.Printf("failed %d stranded analysis jobs from previous run", len(jobs))
	}
}

func (w *AnalysisJobWorker) cleanupRoutine() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			if err := w.jobRepo.CleanupOldJobs(time.Now().Add(-w.jobRetention)); err != nil {
				log.Printf("analysis job cleanup failed: %v", err)
			}
		}
	}
}
