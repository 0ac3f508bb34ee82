//go:build windows

package process

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/wnxd/psxhook/process"
	"golang.org/x/sys/windows"
)

const processAccess = windows.PROCESS_VM_READ | windows.PROCESS_VM_WRITE | windows.PROCESS_VM_OPERATION | windows.PROCESS_QUERY_INFORMATION

var (
	modntdll                 = windows.NewLazySystemDLL("ntdll.dll")
	procNtWriteVirtualMemory = modntdll.NewProc("NtWriteVirtualMemory")
)

type winProcess struct {
	pid       int
	arch      process.Arch
	handle    windows.Handle
	fastWrite bool
	closed    atomic.Bool
}

// Open attaches to pid. Writes skip WriteProcessMemory's page protection
// query when NtWriteVirtualMemory resolves.
func Open(pid int) (process.Process, error) {
	h, err := windows.OpenProcess(processAccess, false, uint32(pid))
	if err != nil {
		switch {
		case errors.Is(err, windows.ERROR_ACCESS_DENIED):
			return nil, fmt.Errorf("%w: pid %d", process.ErrAccessDenied, pid)
		case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
			return nil, fmt.Errorf("%w: pid %d", process.ErrNotFound, pid)
		}
		return nil, err
	}
	arch := process.ARCH_X86_64
	var wow64 bool
	if windows.IsWow64Process(h, &wow64) == nil && wow64 {
		arch = process.ARCH_X86
	}
	return &winProcess{
		pid:       pid,
		arch:      arch,
		handle:    h,
		fastWrite: procNtWriteVirtualMemory.Find() == nil,
	}, nil
}

func (p *winProcess) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return windows.CloseHandle(p.handle)
}

func (p *winProcess) Pid() int {
	return p.pid
}

func (p *winProcess) Arch() process.Arch {
	return p.arch
}

func toProt(protect uint32) process.MemProt {
	var prot process.MemProt
	switch protect & 0xFF {
	case windows.PAGE_READONLY:
		prot = process.MEM_PROT_READ
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		prot = process.MEM_PROT_READ | process.MEM_PROT_WRITE
	case windows.PAGE_EXECUTE:
		prot = process.MEM_PROT_EXEC
	case windows.PAGE_EXECUTE_READ:
		prot = process.MEM_PROT_READ | process.MEM_PROT_EXEC
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		prot = process.MEM_PROT_ALL
	}
	if protect&windows.PAGE_GUARD != 0 {
		prot |= process.MEM_PROT_GUARD
	}
	return prot
}

func (p *winProcess) MemRegions() iter.Seq[process.MemRegion] {
	return func(yield func(process.MemRegion) bool) {
		var addr uintptr
		for {
			var mbi windows.MemoryBasicInformation
			if windows.VirtualQueryEx(p.handle, addr, &mbi, unsafe.Sizeof(mbi)) != nil {
				return
			}
			if mbi.State == windows.MEM_COMMIT {
				region := process.MemRegion{Addr: uint64(mbi.BaseAddress), Size: uint64(mbi.RegionSize), Prot: toProt(mbi.Protect)}
				if !yield(region) {
					return
				}
			}
			next := mbi.BaseAddress + mbi.RegionSize
			if next <= addr {
				return
			}
			addr = next
		}
	}
}

func (p *winProcess) Modules() (map[string]process.Module, error) {
	var mods [1024]windows.Handle
	var needed uint32
	err := windows.EnumProcessModulesEx(p.handle, &mods[0], uint32(unsafe.Sizeof(mods)), &needed, windows.LIST_MODULES_ALL)
	if err != nil {
		return nil, err
	}
	count := min(int(needed/uint32(unsafe.Sizeof(mods[0]))), len(mods))
	result := make(map[string]process.Module, count)
	for _, mod := range mods[:count] {
		var mi windows.ModuleInfo
		if windows.GetModuleInformation(p.handle, mod, &mi, uint32(unsafe.Sizeof(mi))) != nil {
			continue
		}
		var name [windows.MAX_PATH]uint16
		if windows.GetModuleBaseName(p.handle, mod, &name[0], windows.MAX_PATH) != nil {
			continue
		}
		n := windows.UTF16ToString(name[:])
		result[strings.ToLower(n)] = process.Module{Name: n, Base: uint64(mi.BaseOfDll), Size: uint64(mi.SizeOfImage)}
	}
	return result, nil
}

func (p *winProcess) MemRead(addr, size uint64) ([]byte, error) {
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

func (p *winProcess) MemReadPtr(addr, size uint64, ptr unsafe.Pointer) error {
	if p.closed.Load() {
		return process.NewReadFault(addr, size, process.ErrClosed)
	}
	var n uintptr
	err := windows.ReadProcessMemory(p.handle, uintptr(addr), (*byte)(ptr), uintptr(size), &n)
	if err != nil {
		return process.NewReadFault(addr, size, err)
	} else if uint64(n) != size {
		return process.NewReadFault(addr, size, nil)
	}
	return nil
}

func (p *winProcess) MemWrite(addr uint64, data []byte) error {
	size := uint64(len(data))
	if p.closed.Load() {
		return process.NewWriteFault(addr, size, process.ErrClosed)
	} else if size == 0 {
		return nil
	}
	var n uintptr
	if p.fastWrite {
		status, _, _ := procNtWriteVirtualMemory.Call(uintptr(p.handle), uintptr(addr), uintptr(unsafe.Pointer(unsafe.SliceData(data))), uintptr(size), uintptr(unsafe.Pointer(&n)))
		if status == 0 && uint64(n) == size {
			return nil
		}
	}
	err := windows.WriteProcessMemory(p.handle, uintptr(addr), unsafe.SliceData(data), uintptr(size), &n)
	if err != nil {
		return process.NewWriteFault(addr, size, err)
	} else if uint64(n) != size {
		return process.NewWriteFault(addr, size, nil)
	}
	return nil
}
