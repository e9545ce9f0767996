package loader

import (
	"context"
	"errors"
)

// ErrTaskPending is returned by Task.Result before the task has resolved.
var ErrTaskPending = errors.New("task has not resolved yet")

// Task is a handle to a value produced in the background. It resolves exactly once.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// newTask creates an unresolved task.
func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

// NewResolvedTask creates a task that has already resolved with the given result.
//
// Parameters:
//   - value: the task value
//   - err: the task error
//
// Returns:
//   - *Task[T]: the resolved task
func NewResolvedTask[T any](value T, err error) *Task[T] {
	t := newTask[T]()
	t.resolve(value, err)
	return t
}

// NewPendingTask creates an unresolved task together with the function that resolves it.
// The resolve function must be called exactly once.
func NewPendingTask[T any]() (*Task[T], func(value T, err error)) {
	t := newTask[T]()
	return t, t.resolve
}

// resolve stores the result and wakes every waiter. It must be called once.
func (t *Task[T]) resolve(value T, err error) {
	t.value = value
	t.err = err
	close(t.done)
}

// Done returns a channel that is closed once the task has resolved.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Ready reports whether the task has resolved.
func (t *Task[T]) Ready() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Result returns the task outcome without blocking.
//
// Returns:
//   - T: the value, zero when the task failed or is still pending
//   - error: the task error, or ErrTaskPending
func (t *Task[T]) Result() (T, error) {
	if !t.Ready() {
		var zero T
		return zero, ErrTaskPending
	}
	return t.value, t.err
}

// Wait blocks until the task resolves or the context ends. Abandoning the wait does not cancel the task.
//
// Parameters:
//   - ctx: bounds the wait
//
// Returns:
//   - T: the value
//   - error: the task error or the context error
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
