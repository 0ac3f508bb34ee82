package emulator

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/wnxd/psxhook/emulator"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/logger"
	"github.com/wnxd/psxhook/process"
)

type accessor struct {
	proc      process.Process
	ram       process.Pointer
	broken    atomic.Bool
	fault     atomic.Pointer[error]
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New wraps an open process whose emulated RAM starts at base. The returned
// Emulator owns proc.
func New(proc process.Process, base uint64) emulator.Emulator {
	return &accessor{proc: proc, ram: process.ToPointer(proc, base)}
}

func (a *accessor) Close() error {
	a.closeOnce.Do(func() {
		a.closed.Store(true)
		a.closeErr = a.proc.Close()
	})
	return a.closeErr
}

func (a *accessor) Process() process.Process {
	return a.proc
}

func (a *accessor) Base() uint64 {
	return a.ram.Address()
}

func (a *accessor) PollErrors() bool {
	return a.broken.Load()
}

func (a *accessor) Err() error {
	if err := a.fault.Load(); err != nil {
		return *err
	}
	return nil
}

func (a *accessor) check(off int64, size int) error {
	if a.closed.Load() {
		return emulator.ErrNotAttached
	} else if off < 0 || off+int64(size) > layout.RAMSize {
		return fmt.Errorf("%w: %#x+%d", emulator.ErrOutOfRange, off, size)
	}
	return nil
}

// fail records err. Offsets outside emulated RAM are caller mistakes and
// leave the connection usable.
func (a *accessor) fail(err error) {
	if errors.Is(err, emulator.ErrOutOfRange) {
		logger.Logf(logger.Allow, "emulator", "%v", err)
		return
	}
	a.fault.CompareAndSwap(nil, &err)
	a.broken.Store(true)
	logger.Logf(logger.Allow, "emulator", "%v", err)
}

func (a *accessor) ReadAt(b []byte, off int64) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	err := a.check(off, len(b))
	if err == nil {
		_, err = a.ram.ReadAt(b, off)
	}
	if err != nil {
		a.fail(err)
		return 0, err
	}
	return len(b), nil
}

func (a *accessor) WriteAt(b []byte, off int64) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	err := a.check(off, len(b))
	if err == nil {
		_, err = a.ram.WriteAt(b, off)
	}
	if err != nil {
		a.fail(err)
		return 0, err
	}
	return len(b), nil
}

func (a *accessor) Read(off uint32, size int) []byte {
	b := make([]byte, size)
	if _, err := a.ReadAt(b, int64(off)); err != nil {
		clear(b)
	}
	return b
}

func (a *accessor) Write(off uint32, data []byte) {
	a.WriteAt(data, int64(off))
}
