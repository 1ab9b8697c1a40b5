package scheduler

import "context"

type Job func(ctx context.Context)

// JobHandle lets callers wait for a job to finish. Production code never
// waits; tests do.
type JobHandle interface {
	Done() <-chan struct{}
}

// Scheduler runs jobs off the request path. Enqueue must return quickly and
// must never run the job synchronously on the calling goroutine.
type Scheduler interface {
	Enqueue(job Job) JobHandle
}

type jobHandle struct {
	done chan struct{}
}

func (h *jobHandle) Done() <-chan struct{} {
	return h.done
}

func newJobHandle() *jobHandle {
	return &jobHandle{done: make(chan struct{})}
}
