//go:build linux

package process

import (
	"debug/elf"
	"errors"
	"fmt"
	"iter"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/wnxd/psxhook/process"
	"golang.org/x/sys/unix"
)

type linuxProcess struct {
	pid    int
	arch   process.Arch
	mem    *os.File
	closed atomic.Bool
}

// Open attaches to pid. Reads and writes go through process_vm_readv and
// process_vm_writev; /proc/<pid>/mem backs writes the latter refuses.
func Open(pid int) (process.Process, error) {
	if err := unix.Kill(pid, 0); err != nil {
		switch {
		case errors.Is(err, unix.ESRCH):
			return nil, fmt.Errorf("%w: pid %d", process.ErrNotFound, pid)
		case errors.Is(err, unix.EPERM):
			return nil, fmt.Errorf("%w: pid %d", process.ErrAccessDenied, pid)
		}
		return nil, err
	}
	mem, err := os.OpenFile(fmt.Sprintf("/proc/%d/mem", pid), os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: pid %d", process.ErrAccessDenied, pid)
		}
		return nil, err
	}
	return &linuxProcess{pid: pid, arch: exeArch(pid), mem: mem}, nil
}

func exeArch(pid int) process.Arch {
	f, err := elf.Open(fmt.Sprintf("/proc/%d/exe", pid))
	if err != nil {
		return process.ARCH_X86_64
	}
	defer f.Close()
	switch f.Machine {
	case elf.EM_386:
		return process.ARCH_X86
	case elf.EM_AARCH64:
		return process.ARCH_ARM64
	}
	return process.ARCH_X86_64
}

func (p *linuxProcess) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.mem.Close()
}

func (p *linuxProcess) Pid() int {
	return p.pid
}

func (p *linuxProcess) Arch() process.Arch {
	return p.arch
}

func (p *linuxProcess) MemRegions() iter.Seq[process.MemRegion] {
	return func(yield func(process.MemRegion) bool) {
		f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
		if err != nil {
			return
		}
		defer f.Close()
		for e := range parseMaps(f) {
			if !yield(e.MemRegion) {
				return
			}
		}
	}
}

func (p *linuxProcess) Modules() (map[string]process.Module, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", p.pid))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return modulesFromMaps(parseMaps(f)), nil
}

func (p *linuxProcess) MemRead(addr, size uint64) ([]byte, error) {
	data := make([]byte, size)
	if size == 0 {
		return data, nil
	}
	err := p.MemReadPtr(addr, size, unsafe.Pointer(unsafe.SliceData(data)))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *linuxProcess) MemReadPtr(addr, size uint64, ptr unsafe.Pointer) error {
	if p.closed.Load() {
		return process.NewReadFault(addr, size, process.ErrClosed)
	}
	local := []unix.Iovec{{Base: (*byte)(ptr)}}
	local[0].SetLen(int(size))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: int(size)}}
	n, err := unix.ProcessVMReadv(p.pid, local, remote, 0)
	if err != nil {
		return process.NewReadFault(addr, size, err)
	} else if uint64(n) != size {
		return process.NewReadFault(addr, size, nil)
	}
	return nil
}

func (p *linuxProcess) MemWrite(addr uint64, data []byte) error {
	size := uint64(len(data))
	if p.closed.Load() {
		return process.NewWriteFault(addr, size, process.ErrClosed)
	} else if size == 0 {
		return nil
	}
	local := []unix.Iovec{{Base: unsafe.SliceData(data)}}
	local[0].SetLen(len(data))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(data)}}
	n, err := unix.ProcessVMWritev(p.pid, local, remote, 0)
	if err == nil && n == len(data) {
		return nil
	}
	n, err = p.mem.WriteAt(data, int64(addr))
	if err != nil {
		return process.NewWriteFault(addr, size, err)
	} else if n != len(data) {
		return process.NewWriteFault(addr, size, nil)
	}
	return nil
}
