package scheduler

import "context"

// Synchronous runs jobs inline on Enqueue. It exists for deterministic tests
// and must not be used on a serving path.
type Synchronous struct {
	ctx context.Context
}

func NewSynchronous(ctx context.Context) *Synchronous {
	return &Synchronous{ctx: ctx}
}

func (s *Synchronous) Enqueue(job Job) JobHandle {
	handle := newJobHandle()
	job(s.ctx)
	close(handle.done)
	return handle
}

var _ Scheduler = (*Synchronous)(nil)
