package tpool

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ifnotnil/tpool/internal/queue"
)

// sharedReceiver serializes workers on the consumer side of the queue, so
// at most one worker waits inside Recv at a time.
type sharedReceiver struct {
	mu sync.Mutex
	rx *queue.Receiver[task]
}

// next takes the following task. delivered runs before the lock is
// released, so its calls follow delivery order across all workers.
func (s *sharedReceiver) next(delivered func(task)) (task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.rx.Recv()
	if ok && delivered != nil {
		delivered(t)
	}

	return t, ok
}

type worker struct {
	id   int
	done chan struct{} // closed when the worker exits for good.
}

func (p *Pool) work(ctx context.Context, w *worker, started func()) {
	exited := false

	defer func() {
		if !exited {
			// recover is nil when the job called runtime.Goexit.
			p.metrics.panicked.Inc()
			p.logger.ErrorContext(ctx, "worker job panicked", slog.Int("worker_id", w.id), slog.Any("panic", recover()))

			if p.respawnOnPanic {
				p.logger.InfoContext(ctx, "respawning worker", slog.Int("worker_id", w.id))
				go p.work(ctx, w, nil)
				return
			}
		}

		p.alive.Add(-1)
		p.metrics.alive.Dec()
		close(w.done)
	}()

	if started != nil {
		started()
	}

	delivered := func(t task) {
		p.metrics.started.Inc()
		p.logger.DebugContext(ctx, "worker got a job; executing", slog.Int("worker_id", w.id), slog.Uint64("job_id", t.id))
	}

	for {
		t, open := p.receiver.next(delivered)
		if !open { // Queue has been closed and drained.
			p.logger.DebugContext(ctx, "worker disconnected; shutting down", slog.Int("worker_id", w.id))
			exited = true
			return
		}

		p.run(t.job)
	}
}

func (p *Pool) run(job Job) {
	start := time.Now()
	job()
	p.metrics.duration.Observe(time.Since(start).Seconds())
	p.metrics.completed.Inc()
}
