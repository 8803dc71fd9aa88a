package workpool

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"assetcarver/internal/logging"
)

// HandlerFunc processes one item. It must not panic and owns its own error
// reporting.
type HandlerFunc func(ctx context.Context, item string)

// ProgressFunc receives monitor samples.
type ProgressFunc func(Progress)

// Pool runs a fixed number of workers over a Queue.
type Pool struct {
	workers        int
	dequeueTimeout time.Duration
	interval       time.Duration
	onProgress     ProgressFunc
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures a Pool.
type Option func(*Pool)

// WithDequeueTimeout bounds each dequeue wait.
func WithDequeueTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.dequeueTimeout = d
		}
	}
}

// WithMonitor samples progress every interval and once more on completion.
func WithMonitor(interval time.Duration, fn ProgressFunc) Option {
	return func(p *Pool) {
		p.interval = interval
		p.onProgress = fn
	}
}

// WithLogger sets the pool logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// New returns a pool with the given worker count (minimum 1).
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		workers:        workers,
		dequeueTimeout: 5 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "workpool")
	return p
}

// Run processes items until the queue drains or ctx is cancelled. In-flight
// handlers always finish. It returns ctx.Err() when cancelled.
func (p *Pool) Run(ctx context.Context, items []string, fn HandlerFunc) error {
	q := NewQueue(items)
	workers := min(p.workers, max(q.Total(), 1))
	start := p.now()

	stopMonitor := p.startMonitor(q, start)

	var g errgroup.Group
	for id := range workers {
		g.Go(func() error {
			p.work(logging.WithWorker(ctx, id), id, q, fn)
			return nil
		})
	}
	_ = g.Wait()
	stopMonitor()

	p.logger.Debug("pool drained",
		logging.Int("workers", workers),
		logging.Int("done", q.Done()),
		logging.Int("total", q.Total()))
	return ctx.Err()
}

func (p *Pool) work(ctx context.Context, id int, q *Queue, fn HandlerFunc) {
	for {
		if ctx.Err() != nil {
			return
		}
		item, err := q.Dequeue(ctx, p.dequeueTimeout)
		if err != nil {
			if !errors.Is(err, ErrQueueClosed) {
				p.logger.Debug("worker exiting",
					logging.Int(logging.FieldWorker, id),
					logging.Error(err))
			}
			return
		}
		fn(ctx, item)
		q.MarkDone()
	}
}

func (p *Pool) startMonitor(q *Queue, start time.Time) func() {
	if p.onProgress == nil {
		return func() {}
	}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if p.interval <= 0 {
			<-done
			return
		}
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.onProgress(sample(q, p.now().Sub(start)))
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
		p.onProgress(sample(q, p.now().Sub(start)))
	}
}
