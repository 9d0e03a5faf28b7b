package tpool

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ifnotnil/tpool/internal/queue"
)

// Job is a unit of work run exactly once by some worker.
type Job func()

type task struct {
	id  uint64
	job Job
}

type Pool struct {
	id             string
	logger         *slog.Logger
	metrics        *metrics
	sender         atomic.Pointer[queue.Sender[task]]
	receiver       *sharedReceiver
	workers        []*worker
	nextID         atomic.Uint64
	alive          atomic.Int64
	respawnOnPanic bool
	once           sync.Once
}

// New starts a pool of threadCount workers. It returns once every worker
// is running. New panics if threadCount is not positive, or if the pool
// metrics cannot be registered (for example a running pool with the same
// name already uses the registerer).
func New(threadCount int, opts ...func(*config)) *Pool {
	if threadCount <= 0 {
		panic(fmt.Errorf("%w: got %d", ErrInvalidThreadCount, threadCount))
	}

	c := defaultConfig()

	for _, o := range opts {
		o(&c)
	}

	if c.name == "" {
		c.name = uuid.NewString()
	}

	logger := c.logger
	if c.level != nil {
		logger = slog.New(levelHandler{min: *c.level, next: logger.Handler()})
	}

	tx, rx := queue.New[task]()

	m := newMetrics(c.name, func() float64 { return float64(rx.Len()) })
	if err := m.register(c.registerer); err != nil {
		panic(fmt.Errorf("%w: %w", ErrMetricsRegistration, err))
	}

	p := &Pool{
		id:             c.name,
		logger:         logger.With(slog.String("pool_id", c.name)),
		metrics:        m,
		receiver:       &sharedReceiver{rx: rx},
		workers:        make([]*worker, 0, threadCount),
		respawnOnPanic: c.respawnOnPanic,
	}
	p.sender.Store(tx)

	ctx := context.Background()
	p.logger.InfoContext(ctx, "thread pool starting", slog.Int("workers_count", threadCount))

	ready := sync.WaitGroup{}
	ready.Add(threadCount)
	for id := range threadCount {
		w := &worker{id: id, done: make(chan struct{})}
		p.workers = append(p.workers, w)
		p.alive.Add(1)
		p.metrics.alive.Inc()
		go p.work(ctx, w, ready.Done)
	}
	ready.Wait()

	return p
}

// Execute queues job for execution and returns without waiting for it to
// run. Jobs are handed to workers in submission order; they may finish in
// any order. Execute panics if job is nil or the pool has been stopped.
func (p *Pool) Execute(job Job) {
	if job == nil {
		panic(ErrNilJob)
	}

	// counted before Send so started never runs ahead of submitted.
	p.metrics.submitted.Inc()

	tx := p.sender.Load()
	if tx == nil {
		p.metrics.rejected.Inc()
		panic(ErrPoolStopped)
	}

	if err := tx.Send(task{id: p.nextID.Add(1) - 1, job: job}); err != nil { // lost a race with Stop.
		p.metrics.rejected.Inc()
		panic(fmt.Errorf("%w: %w", ErrPoolStopped, err))
	}
}

// Stop closes the job queue, waits for every worker to exit and removes
// the pool metrics from their registerer. Jobs already queued are still
// run. Stop only returns after the first call has finished tearing down,
// however many times it is called.
func (p *Pool) Stop(ctx context.Context) {
	p.once.Do(func() { p.close(ctx) })
}

func (p *Pool) close(ctx context.Context) {
	p.logger.InfoContext(ctx, "thread pool shutting down", slog.Int("pending_jobs", p.Pending()))

	if tx := p.sender.Swap(nil); tx != nil {
		_ = tx.Close() // the slot is emptied exactly once, so this cannot fail.
	}

	for _, w := range p.workers {
		p.logger.InfoContext(ctx, "shutting down worker", slog.Int("worker_id", w.id))
		<-w.done
	}

	p.metrics.unregister()

	p.logger.InfoContext(ctx, "thread pool shutdown completed")
}

// ID returns the pool name, or the generated UUID if none was given.
func (p *Pool) ID() string { return p.id }

// Workers returns the size the pool was created with.
func (p *Pool) Workers() int { return len(p.workers) }

// Alive returns the number of workers still running. It drops below
// Workers when a job panics and respawning is disabled, and reaches zero
// once Stop returns.
func (p *Pool) Alive() int { return int(p.alive.Load()) }

// Pending returns the number of queued jobs no worker has taken yet.
func (p *Pool) Pending() int { return p.receiver.rx.Len() }
