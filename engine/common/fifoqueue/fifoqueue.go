package fifoqueue

import (
	"fmt"
	mathbits "math/bits"
	"sync"

	"github.com/ef-ds/deque"
)

// FifoQueue implements a FIFO queue with max capacity and length observer.
// Elements that exceed the queue's max capacity are dropped and Push
// returns false. By default, the capacity equals the largest `int` value.
// Each time the queue's length changes, the QueueLengthObserver is called
// with the new length.
//
// The queue is concurrency safe. The QueueLengthObserver must be non-blocking.
type FifoQueue[T any] struct {
	mu             sync.RWMutex
	queue          deque.Deque
	maxCapacity    int
	lengthObserver QueueLengthObserver
}

// ConstructorOption is an optional argument of NewFifoQueue.
type ConstructorOption[T any] func(*FifoQueue[T]) error

// QueueLengthObserver is called with the new length after every change.
type QueueLengthObserver func(int)

// WithCapacity specifies the max number of elements the queue can hold.
func WithCapacity[T any](capacity int) ConstructorOption[T] {
	return func(queue *FifoQueue[T]) error {
		if capacity < 1 {
			return fmt.Errorf("capacity for Fifo queue must be positive")
		}
		queue.maxCapacity = capacity
		return nil
	}
}

// WithLengthObserver sets the callback observing the queue length, for
// example a metrics gauge.
func WithLengthObserver[T any](callback QueueLengthObserver) ConstructorOption[T] {
	return func(queue *FifoQueue[T]) error {
		if callback == nil {
			return fmt.Errorf("nil is not a valid QueueLengthObserver")
		}
		queue.lengthObserver = callback
		return nil
	}
}

func NewFifoQueue[T any](options ...ConstructorOption[T]) (*FifoQueue[T], error) {
	maxInt := 1<<(mathbits.UintSize-1) - 1

	queue := &FifoQueue[T]{
		maxCapacity:    maxInt,
		lengthObserver: func(int) {},
	}
	for _, opt := range options {
		err := opt(queue)
		if err != nil {
			return nil, fmt.Errorf("failed to apply constructor option to fifoqueue queue: %w", err)
		}
	}
	return queue, nil
}

// Push appends the element to the tail of the queue. It returns false if
// the queue is full and the element was dropped.
func (q *FifoQueue[T]) Push(element T) bool {
	length, pushed := q.push(element)
	if pushed {
		q.lengthObserver(length)
	}
	return pushed
}

func (q *FifoQueue[T]) push(element T) (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	length := q.queue.Len()
	if length < q.maxCapacity {
		q.queue.PushBack(element)
		return length + 1, true
	}
	return length, false
}

// Front peeks at the head of the queue without removing it.
func (q *FifoQueue[T]) Front() (T, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	element, ok := q.queue.Front()
	if !ok {
		var zero T
		return zero, false
	}
	return element.(T), true
}

// Pop removes and returns the head of the queue.
func (q *FifoQueue[T]) Pop() (T, bool) {
	element, length, ok := q.pop()
	if !ok {
		var zero T
		return zero, false
	}

	q.lengthObserver(length)
	return element.(T), true
}

func (q *FifoQueue[T]) pop() (interface{}, int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	element, ok := q.queue.PopFront()
	return element, q.queue.Len(), ok
}

// Len returns the current length of the queue.
func (q *FifoQueue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.queue.Len()
}
