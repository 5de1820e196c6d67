package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SentimentPulse/internal/domain/models"
	domrepo "SentimentPulse/internal/domain/repository"

	"github.com/cenkalti/backoff/v4"
)

// RunPipeline sits between the HTTP handler and the event publisher.
// It validates runs and forwards them downstream on the caller's context, so the
// first attempt blocks as long as the downstream write does (use async Kafka
// writes to avoid that). Failed runs are buffered and retried in the background.
type RunPipeline struct {
	next    domrepo.RunPublisher
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan *models.AnalysisRun
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
	newBO   func() backoff.BackOff
}

type PipelineOption func(*RunPipeline)

// WithBufferSize sets how many failed runs are held for retry.
func WithBufferSize(n int) PipelineOption {
	return func(p *RunPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithRetryBackOff overrides the retry schedule used while draining the buffer.
func WithRetryBackOff(fn func() backoff.BackOff) PipelineOption {
	return func(p *RunPipeline) { p.newBO = fn }
}

// NewRunPipeline wraps next. metrics may be nil.
func NewRunPipeline(next domrepo.RunPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *RunPipeline {
	p := &RunPipeline{
		next:    next,
		metrics: metrics,
		bufSize: 256,
		stopCh:  make(chan struct{}),
		newBO: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 50 * time.Millisecond
			bo.MaxInterval = 2 * time.Second
			bo.MaxElapsedTime = 0
			return bo
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.AnalysisRun, p.bufSize)
	return p
}

// Start launches background retry of buffered runs.
func (p *RunPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		bo := p.newBO()
		for {
			select {
			case <-p.stopCh:
				return
			case run := <-p.bufCh:
				for {
					err := p.next.PublishRun(ctx, run)
					if err == nil {
						bo.Reset()
						break
					}
					p.recordError("pipeline_flush")
					wait := bo.NextBackOff()
					if wait == backoff.Stop {
						p.recordError("pipeline_drop")
						break
					}
					select {
					case <-p.stopCh:
						return
					case <-time.After(wait):
					}
				}
			}
		}
	}()
}

// PublishRun validates and forwards run; on downstream failure it is buffered.
func (p *RunPipeline) PublishRun(ctx context.Context, run *models.AnalysisRun) error {
	start := time.Now()
	if err := validateRun(run); err != nil {
		p.recordError("pipeline_validate")
		return err
	}
	if err := p.next.PublishRun(ctx, run); err != nil {
		p.recordError("pipeline_publish")
		select {
		case p.bufCh <- run:
		default:
			p.recordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordLatency("pipeline_publish", time.Since(start).Seconds())
	}
	return nil
}

// Buffered returns the number of runs waiting for retry.
func (p *RunPipeline) Buffered() int { return len(p.bufCh) }

// Close stops retrying and closes the downstream publisher. Buffered runs are dropped.
func (p *RunPipeline) Close() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	if n := len(p.bufCh); n > 0 && p.metrics != nil {
		for i := 0; i < n; i++ {
			p.metrics.RecordError("pipeline_drop")
		}
	}
	return p.next.Close()
}

func (p *RunPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func validateRun(r *models.AnalysisRun) error {
	if r == nil {
		return errors.New("run nil")
	}
	if r.ID == "" {
		return errors.New("run id empty")
	}
	switch r.Outcome {
	case models.OutcomeResults, models.OutcomeMissingInput:
	default:
		return fmt.Errorf("unknown outcome %q", r.Outcome)
	}
	if r.SentimentFiles < 0 || r.TraderFiles < 0 {
		return errors.New("negative file count")
	}
	return nil
}
