package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Amund211/intralinks/internal/logging"
	"github.com/Amund211/intralinks/internal/reporting"
)

// JobLimiter bounds how fast jobs may hit shared backends.
// ratelimiting.NewWindowLimitRequestLimiter satisfies this.
type JobLimiter interface {
	Limit(ctx context.Context, maxOperationTime time.Duration, operation func()) bool
}

type queuedJob struct {
	job    Job
	handle *jobHandle
}

// Pool runs enqueued jobs on a fixed number of worker goroutines.
type Pool struct {
	baseCtx context.Context
	queue   chan queuedJob
	limiter JobLimiter
	maxTime time.Duration

	mutex   sync.RWMutex
	closed  bool
	workers sync.WaitGroup
}

type PoolOptions struct {
	Workers   int
	QueueSize int
	// Optional: bounds the rate of job starts across all workers
	Limiter JobLimiter
	// Per-job timeout, used both by the limiter and as the job context
	// deadline. Zero means no timeout.
	MaxJobTime time.Duration
}

func NewPool(ctx context.Context, options PoolOptions) *Pool {
	workers := options.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := options.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	pool := &Pool{
		baseCtx: ctx,
		queue:   make(chan queuedJob, queueSize),
		limiter: options.Limiter,
		maxTime: options.MaxJobTime,
	}

	pool.workers.Add(workers)
	for range workers {
		go pool.work()
	}

	return pool
}

// Enqueue hands the job to the pool and returns immediately. When the queue
// is full the job gets its own goroutine instead of being dropped: a dropped
// job would leave its cache key claimed with no one to clear it.
func (p *Pool) Enqueue(job Job) JobHandle {
	handle := newJobHandle()
	queued := queuedJob{job: job, handle: handle}

	p.mutex.RLock()
	defer p.mutex.RUnlock()

	if p.closed {
		// Shutdown raced an enqueue. The job is lost; a refresh claim it
		// would have cleared only recovers via the store's claim TTL.
		logging.FromContext(p.baseCtx).WarnContext(p.baseCtx, "Dropped job: pool is closed")
		close(handle.done)
		return handle
	}

	select {
	case p.queue <- queued:
	default:
		go p.run(queued)
	}

	return handle
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mutex.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mutex.Unlock()

	p.workers.Wait()
}

func (p *Pool) work() {
	defer p.workers.Done()
	for queued := range p.queue {
		p.run(queued)
	}
}

func (p *Pool) run(queued queuedJob) {
	defer close(queued.handle.done)

	ctx := p.baseCtx
	if p.maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.maxTime)
		defer cancel()
	}

	execute := func() {
		defer func() {
			if r := recover(); r != nil {
				reporting.Report(ctx, fmt.Errorf("job panicked: %v", r))
			}
		}()
		queued.job(ctx)
	}

	if p.limiter == nil {
		execute()
		return
	}

	if !p.limiter.Limit(ctx, p.maxTime, execute) {
		// A refused job must still run: its cache key is claimed and only
		// the job itself clears the claim
		logging.FromContext(ctx).WarnContext(ctx, "Rate limiter refused job, running it unthrottled")
		execute()
	}
}

var _ Scheduler = (*Pool)(nil)
