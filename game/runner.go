package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wnxd/psxhook/emulator"
	iemulator "github.com/wnxd/psxhook/internal/emulator"
	"github.com/wnxd/psxhook/logger"
)

const DefaultInterval = time.Millisecond

type ConnState int32

const (
	Detached ConnState = iota
	Connecting
	Connected
	Failed
)

func (s ConnState) String() string {
	switch s {
	case Detached:
		return "detached"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type AttachFunc func(emulator.Target) (emulator.Emulator, error)

// Runner owns the emulator connection and calls Manager.Update from its own
// goroutine. State, Status, Running and Err may be called from any goroutine.
type Runner struct {
	manager  *Manager
	attach   AttachFunc
	interval time.Duration

	mu     sync.Mutex
	emu    emulator.Emulator
	ctx    context.Context
	cancel context.CancelCauseFunc
	done   chan struct{}

	state   atomic.Int32
	status  atomic.Value
	running atomic.Bool
}

// NewRunner drives m. A nil attach uses the operating system, a zero
// interval DefaultInterval.
func NewRunner(m *Manager, attach AttachFunc, interval time.Duration) *Runner {
	if attach == nil {
		attach = iemulator.Attach
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Runner{manager: m, attach: attach, interval: interval}
	r.ctx, r.cancel = context.WithCancelCause(context.Background())
	r.cancel(errDetached)
	r.setState(Detached, "not attached")
	return r
}

func (r *Runner) Manager() *Manager {
	return r.manager
}

func (r *Runner) State() ConnState {
	return ConnState(r.state.Load())
}

func (r *Runner) Status() string {
	return r.status.Load().(string)
}

func (r *Runner) Running() bool {
	return r.running.Load()
}

// Done is closed when the current polling loop stops.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx.Done()
}

// Err returns why the polling loop stopped, nil if it was detached.
func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := context.Cause(r.ctx)
	if errors.Is(err, errDetached) {
		err = nil
	}
	return err
}

func (r *Runner) setState(state ConnState, status string) {
	r.state.Store(int32(state))
	r.status.Store(status)
}

// Attach connects to t and starts polling. It does nothing while a healthy
// connection exists.
func (r *Runner) Attach(t emulator.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running.Load() && r.State() == Connected {
		return nil
	}
	r.stop()

	r.setState(Connecting, "connecting to "+t.String())
	emu, err := r.attach(t)
	if err != nil {
		r.setState(Failed, err.Error())
		logger.Logf(logger.Allow, "runner", "attach %v: %v", t, err)
		return err
	}
	r.emu = emu
	r.manager.Reset(emu)

	r.ctx, r.cancel = context.WithCancelCause(context.Background())
	r.done = make(chan struct{})
	r.running.Store(true)
	r.setState(Connected, "connected to "+t.String())
	go r.loop(r.cancel, r.done)
	return nil
}

// Detach stops polling, waits for the current tick to finish and releases
// the emulator.
func (r *Runner) Detach() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.stop()
	r.setState(Detached, "not attached")
	return err
}

func (r *Runner) stop() error {
	if r.done != nil {
		r.running.Store(false)
		<-r.done
		r.cancel(errDetached)
		r.done = nil
	}
	if r.emu == nil {
		return nil
	}
	err := r.emu.Close()
	r.emu = nil
	r.manager.Reset(nil)
	return err
}

func (r *Runner) loop(cancel context.CancelCauseFunc, done chan<- struct{}) {
	defer close(done)
	for r.running.Load() {
		if err := r.tick(); err != nil {
			r.running.Store(false)
			r.setState(Failed, err.Error())
			logger.Logf(logger.Allow, "runner", "%v", err)
			cancel(err)
			return
		}
		time.Sleep(r.interval)
	}
}

func (r *Runner) tick() (err error) {
	defer func() {
		if ex := recover(); ex != nil {
			err = NewPanicError(ex)
		}
	}()
	return r.manager.Update()
}
