package emulator

import (
	"github.com/wnxd/psxhook/emulator"
	iprocess "github.com/wnxd/psxhook/internal/process"
	"github.com/wnxd/psxhook/layout"
	"github.com/wnxd/psxhook/logger"
	"github.com/wnxd/psxhook/process"
)

// Attach finds, opens and locates the emulator described by t.
func Attach(t emulator.Target) (emulator.Emulator, error) {
	pid := t.PID
	if pid == 0 {
		var err error
		pid, err = iprocess.FindByName(t.ProcessName())
		if err != nil {
			return nil, &emulator.AttachError{Stage: emulator.StageFind, Err: err}
		}
	}
	proc, err := iprocess.Open(pid)
	if err != nil {
		return nil, &emulator.AttachError{Stage: emulator.StageOpen, Err: err}
	}
	logger.Logf(logger.Allow, "attach", "opened %s pid %d (%v)", t.ProcessName(), pid, proc.Arch())
	return AttachProcess(proc, t.Family)
}

// AttachProcess locates emulated RAM in an already open process. proc is
// closed if that fails.
func AttachProcess(proc process.Process, fam emulator.Family) (emulator.Emulator, error) {
	base, err := Discover(proc, fam)
	if err != nil {
		proc.Close()
		return nil, &emulator.AttachError{Stage: emulator.StageDiscover, Err: err}
	}
	emu := New(proc, base)
	var pos [2]byte
	if _, err := emu.ReadAt(pos[:], layout.OffsetFieldX); err != nil {
		emu.Close()
		return nil, &emulator.AttachError{Stage: emulator.StageSanity, Err: err}
	}
	logger.Logf(logger.Allow, "attach", "attached at %#x", base)
	return emu, nil
}
