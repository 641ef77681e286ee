// Package client provides an HTTP client for the board API whose mutations
// are serialized through a queue: operations start strictly in enqueue order,
// each settles as confirmed or failed, and a failure never cancels the
// mutations queued behind it.
package client

import (
	"context"
	"sync"
	"sync/atomic"
)

// MutationState describes where a queued mutation is in its lifecycle.
type MutationState int32

const (
	MutationPending MutationState = iota
	MutationConfirmed
	MutationFailed
)

func (s MutationState) String() string {
	switch s {
	case MutationPending:
		return "pending"
	case MutationConfirmed:
		return "confirmed"
	case MutationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mutation is the caller's handle on one queued operation. It is pending
// from enqueue until the operation settles.
type Mutation struct {
	state atomic.Int32
	err   error
	done  chan struct{}
}

func newMutation() *Mutation {
	return &Mutation{done: make(chan struct{})}
}

func (m *Mutation) State() MutationState {
	return MutationState(m.state.Load())
}

// Err returns the settling error, nil while pending or after confirmation.
func (m *Mutation) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}

// Done is closed when the mutation settles.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles or the context ends. On settle it
// returns the mutation's outcome.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mutation) settle(err error) {
	if err != nil {
		m.err = err
		m.state.Store(int32(MutationFailed))
	} else {
		m.state.Store(int32(MutationConfirmed))
	}
	close(m.done)
}

type job struct {
	mutation *Mutation
	op       func(context.Context) error
}

// Queue runs mutations one at a time in enqueue order on a single worker.
type Queue struct {
	jobs    chan job
	pending atomic.Int64

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

const defaultQueueDepth = 64

// NewQueue starts the worker and returns the queue.
func NewQueue() *Queue {
	q := &Queue{jobs: make(chan job, defaultQueueDepth)}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) run() {
	defer q.wg.Done()
	for j := range q.jobs {
		err := j.op(context.Background())
		j.mutation.settle(err)
		q.pending.Add(-1)
	}
}

// Enqueue adds an operation to the queue and returns its handle. The
// operation counts as pending immediately, before the worker picks it up.
// Enqueue blocks while the queue buffer is full; it never reorders.
func (q *Queue) Enqueue(op func(context.Context) error) *Mutation {
	m := newMutation()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		m.settle(context.Canceled)
		return m
	}
	q.pending.Add(1)
	q.jobs <- job{mutation: m, op: op}
	q.mu.Unlock()
	return m
}

// PendingCount reports how many mutations are enqueued or running.
func (q *Queue) PendingCount() int {
	return int(q.pending.Load())
}

// Close stops accepting mutations and waits for the queued ones to settle.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()
	q.wg.Wait()
}
