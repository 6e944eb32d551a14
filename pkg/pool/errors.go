package pool

import (
	"errors"
	"fmt"
)

var (
	ErrPoolClosed       = errors.New("pool: submit after shutdown")
	ErrInvalidSize      = errors.New("pool: size must be at least 1")
	ErrAlreadyCompleted = errors.New("pool: future already completed")
	ErrTaskFailed       = errors.New("pool: task failed")
	ErrUnknownMode      = errors.New("pool: unknown mode")
)

// TaskError is how a failing task reaches its Future. Only the message is
// guaranteed to be present: isolated workers cannot hand back the original
// error value.
type TaskError struct {
	ID    uint64
	Msg   string
	cause error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %s", e.ID, e.Msg)
}

func (e *TaskError) Is(target error) bool {
	return target == ErrTaskFailed
}

func (e *TaskError) Unwrap() error {
	return e.cause
}
