// Package queue implements an unbounded FIFO hand-off channel with a single
// producer handle and a consumer handle.
//
// Unlike a Go channel, sends never block: items are buffered until a
// receiver takes them. Closing the producer side does not discard buffered
// items; receivers keep getting them until the buffer drains, and only then
// observe end-of-stream.
package queue

import (
	"errors"
	"sync"

	"github.com/gammazero/deque"
)

var ErrClosed = errors.New("queue is closed")

type state[T any] struct {
	mu     sync.Mutex
	ready  *sync.Cond
	items  deque.Deque[T]
	closed bool
}

// Sender is the producer side of a queue.
type Sender[T any] struct {
	s *state[T]
}

// Receiver is the consumer side of a queue. Recv may be called from
// several goroutines; each buffered item is returned to exactly one caller.
type Receiver[T any] struct {
	s *state[T]
}

// New creates a queue and returns both of its handles.
func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &state[T]{}
	s.ready = sync.NewCond(&s.mu)

	return &Sender[T]{s: s}, &Receiver[T]{s: s}
}

// Send appends item to the tail of the queue. It never blocks.
func (q *Sender[T]) Send(item T) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if q.s.closed {
		return ErrClosed
	}

	q.s.items.PushBack(item)
	q.s.ready.Signal()

	return nil
}

// Close permanently closes the queue for sending. Calling it again returns
// ErrClosed.
func (q *Sender[T]) Close() error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	if q.s.closed {
		return ErrClosed
	}

	q.s.closed = true
	q.s.ready.Broadcast() // wake every waiting receiver so they can observe closure.

	return nil
}

// Recv blocks until an item is available or the queue is closed and
// drained. The boolean is false only in the latter case.
func (q *Receiver[T]) Recv() (T, bool) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	for q.s.items.Len() == 0 && !q.s.closed {
		q.s.ready.Wait()
	}

	if q.s.items.Len() == 0 {
		var zero T
		return zero, false
	}

	return q.s.items.PopFront(), true
}

// Len returns the number of buffered items not yet received.
func (q *Receiver[T]) Len() int {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	return q.s.items.Len()
}
