package game

import (
	"errors"
	"fmt"
)

var (
	ErrConnectionLost = errors.New("connection lost")
	errDetached       = errors.New("detached")
)

// PanicError is a panic raised inside a tick, usually by a subscriber.
type PanicError struct {
	V any
}

func NewPanicError(v any) *PanicError {
	return &PanicError{v}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.V)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.V.(error)
	return err
}
