package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SentimentPulse/internal/domain/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	got      []string
	closed   bool
}

func (f *flakyPublisher) PublishRun(_ context.Context, run *models.AnalysisRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("broker unavailable")
	}
	f.got = append(f.got, run.ID)
	return nil
}

func (f *flakyPublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *flakyPublisher) delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

type countingMetrics struct {
	mu   sync.Mutex
	errs map[string]int
}

func (c *countingMetrics) RecordRun(string) {}
func (c *countingMetrics) RecordError(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errs == nil {
		c.errs = map[string]int{}
	}
	c.errs[kind]++
}
func (c *countingMetrics) RecordLatency(string, float64) {}

func (c *countingMetrics) count(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[kind]
}

func run(id string) *models.AnalysisRun {
	return &models.AnalysisRun{ID: id, Outcome: models.OutcomeResults, SentimentFiles: 1, TraderFiles: 1}
}

func fastRetry() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }

func TestRunPipelineForwards(t *testing.T) {
	next := &flakyPublisher{}
	p := NewRunPipeline(next, nil)
	require.NoError(t, p.PublishRun(context.Background(), run("a")))
	assert.Equal(t, []string{"a"}, next.delivered())
	require.NoError(t, p.Close())
	assert.True(t, next.closed)
}

type ctxKey struct{}

type ctxPublisher struct{ seen context.Context }

func (c *ctxPublisher) PublishRun(ctx context.Context, _ *models.AnalysisRun) error {
	c.seen = ctx
	return ctx.Err()
}

func (c *ctxPublisher) Close() error { return nil }

func TestRunPipelineFirstAttemptUsesCallerContext(t *testing.T) {
	next := &ctxPublisher{}
	p := NewRunPipeline(next, nil)
	defer p.Close()

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	require.NoError(t, p.PublishRun(ctx, run("a")))
	require.NotNil(t, next.seen)
	assert.Equal(t, "req-1", next.seen.Value(ctxKey{}))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.PublishRun(canceled, run("b"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.Buffered())
}

func TestRunPipelineRejectsInvalid(t *testing.T) {
	m := &countingMetrics{}
	p := NewRunPipeline(&flakyPublisher{}, m)
	defer p.Close()

	cases := map[string]*models.AnalysisRun{
		"nil":      nil,
		"no id":    {Outcome: models.OutcomeResults},
		"outcome":  {ID: "x", Outcome: "maybe"},
		"negative": {ID: "x", Outcome: models.OutcomeMissingInput, TraderFiles: -1},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, p.PublishRun(context.Background(), r))
		})
	}
	assert.Equal(t, len(cases), m.count("pipeline_validate"))
}

func TestRunPipelineRetriesBuffered(t *testing.T) {
	next := &flakyPublisher{failures: 3}
	m := &countingMetrics{}
	p := NewRunPipeline(next, m, WithRetryBackOff(fastRetry))

	err := p.PublishRun(context.Background(), run("a"))
	require.Error(t, err)
	assert.Equal(t, 1, p.Buffered())

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return len(next.delivered()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"a"}, next.delivered())
	assert.Equal(t, 2, m.count("pipeline_flush"))

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestRunPipelineBufferFull(t *testing.T) {
	next := &flakyPublisher{failures: 10}
	m := &countingMetrics{}
	p := NewRunPipeline(next, m, WithBufferSize(1))

	assert.Error(t, p.PublishRun(context.Background(), run("a")))
	assert.Error(t, p.PublishRun(context.Background(), run("b")))
	assert.Equal(t, 1, m.count("pipeline_buffer_full"))

	require.NoError(t, p.Close())
	assert.Equal(t, 1, m.count("pipeline_drop"))
}
