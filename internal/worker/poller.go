package worker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"holoframe-backend/internal/logger"
	"holoframe-backend/internal/models"
)

type JobLister interface {
	ListPending(ctx context.Context, limit int) ([]models.GenerationJob, error)
}

type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.GenerationJob) error
}

type Config struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
}

// Poller advances pending generation jobs on a fixed interval.
type Poller struct {
	lister    JobLister
	processor JobProcessor
	cfg       Config
	log       *logger.Logger
}

func NewPoller(lister JobLister, processor JobProcessor, cfg Config, log *logger.Logger) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 20 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{lister: lister, processor: processor, cfg: cfg, log: log}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Info("Job poller started", "interval", p.cfg.Interval.String(), "concurrency", p.cfg.Concurrency)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := p.RunOnce(ctx); err != nil && ctx.Err() == nil {
			p.log.Error("Job poll failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.log.Info("Job poller stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce processes one batch of pending jobs and returns how many were
// handled. A failing job is logged and does not stop the others.
func (p *Poller) RunOnce(ctx context.Context) (int, error) {
	jobs, err := p.lister.ListPending(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i := range jobs {
		job := &jobs[i]
		g.Go(func() error {
			if err := p.processor.ProcessJob(gctx, job); err != nil {
				p.log.Warn("Job processing failed", "job_id", job.ID.String(), "operation", job.OperationName, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	p.log.Debug("Job poll finished", "jobs", len(jobs))
	return len(jobs), nil
}
