package flips

import (
	"context"
	"sync"
)

// mailbox is an unbounded FIFO queue with a single consumer. push never
// blocks, so effect goroutines can always report back.
type mailbox[T any] struct {
	mu     sync.Mutex
	queue  []T
	signal chan struct{}
	closed bool
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{signal: make(chan struct{}, 1)}
}

// push appends v and reports false when the mailbox is closed.
func (m *mailbox[T]) push(v T) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, v)
	m.mu.Unlock()

	m.wake()
	return true
}

// pop blocks until an item is available, the mailbox is closed and drained,
// or ctx is done.
func (m *mailbox[T]) pop(ctx context.Context) (T, bool) {
	var zero T
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			v := m.queue[0]
			m.queue[0] = zero
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return v, true
		}
		closed := m.closed
		m.mu.Unlock()

		if closed {
			return zero, false
		}

		select {
		case <-m.signal:
		case <-ctx.Done():
			return zero, false
		}
	}
}

func (m *mailbox[T]) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wake()
}

func (m *mailbox[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *mailbox[T]) wake() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}
