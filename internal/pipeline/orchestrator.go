package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bmcallis/aknetl/internal/config"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/scan"
	"github.com/bmcallis/aknetl/internal/source"
)

// Orchestrator manages the transform pipeline behind the HTTP API.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	scanner   *scan.Scanner
	confirmer *confirm.Confirmer
	claude    *confirm.ClaudeSuggester
	log       *slog.Logger
	cfg       config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. The suggester may be nil, in
// which case structural boundaries keep their pattern confidence.
func NewOrchestrator(cfg config.Config, scanner *scan.Scanner, claude *confirm.ClaudeSuggester, log *slog.Logger) *Orchestrator {
	ccfg := confirm.DefaultConfig()
	ccfg.MatchWindow = cfg.MatchWindow
	ccfg.CallTimeout = cfg.SuggestTimeout
	ccfg.MaxConcurrent = cfg.MaxConcurrentSuggest

	var suggester confirm.Suggester
	if claude != nil {
		suggester = claude
	}

	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		scanner:   scanner,
		confirmer: confirm.New(suggester, log, ccfg),
		claude:    claude,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.scanner, o.confirmer, o.log, "regulation", source.Options{
				PDFFallbackPdftotext: o.cfg.PDFFallbackPdftotext,
			})
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Suggester returns the Claude suggester, or nil when running pattern-only.
func (o *Orchestrator) Suggester() *confirm.ClaudeSuggester {
	return o.claude
}
