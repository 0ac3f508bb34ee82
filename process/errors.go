package process

import (
	"errors"
	"fmt"
)

var (
	ErrAccessDenied    = errors.New("access denied")
	ErrNotFound        = errors.New("process not found")
	ErrReadFault       = errors.New("read fault")
	ErrWriteFault      = errors.New("write fault")
	ErrArchUnsupported = errors.New("architecture unsupported")
	ErrClosed          = errors.New("process closed")
)

type FaultError struct {
	Op   error
	Addr uint64
	Size uint64
	Err  error
}

func (e *FaultError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%v] addr: %016X, size: %d", e.Op, e.Addr, e.Size)
	}
	return fmt.Sprintf("[%v] addr: %016X, size: %d: %v", e.Op, e.Addr, e.Size, e.Err)
}

func (e *FaultError) Is(target error) bool {
	return target == e.Op
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func NewReadFault(addr, size uint64, err error) error {
	return &FaultError{Op: ErrReadFault, Addr: addr, Size: size, Err: err}
}

func NewWriteFault(addr, size uint64, err error) error {
	return &FaultError{Op: ErrWriteFault, Addr: addr, Size: size, Err: err}
}
