package process

import (
	"io"
	"iter"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/wnxd/psxhook/process"
)

type Buffer []byte

func (buf *Buffer) ReadAt(b []byte, off int64) (n int, err error) {
	if int(off) >= len(*buf) {
		return 0, io.EOF
	}
	n = copy(b, (*buf)[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

func (buf *Buffer) WriteAt(b []byte, off int64) (n int, err error) {
	if end := len(b) + int(off); end > len(*buf) {
		*buf = append(*buf, make([]byte, end-len(*buf))...)
	}
	return copy((*buf)[off:], b), nil
}

type memRegion struct {
	process.MemRegion
	buf Buffer
}

// Memory is a process.Process whose address space lives in local buffers.
type Memory struct {
	arch    process.Arch
	pid     int
	mu      sync.Mutex
	regions []*memRegion
	modules map[string]process.Module
	fail    atomic.Bool
	closed  atomic.Bool
	reads   atomic.Int64
	writes  atomic.Int64
}

func NewMemory(arch process.Arch) *Memory {
	return &Memory{arch: arch, pid: -1, modules: make(map[string]process.Module)}
}

// Map places a copy of data at addr. Regions must not overlap.
func (m *Memory) Map(addr uint64, data []byte, prot process.MemProt) {
	r := &memRegion{
		MemRegion: process.MemRegion{Addr: addr, Size: uint64(len(data)), Prot: prot},
		buf:       slices.Clone(data),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, _ := slices.BinarySearchFunc(m.regions, addr, func(r *memRegion, addr uint64) int {
		switch {
		case r.Addr < addr:
			return -1
		case r.Addr > addr:
			return 1
		}
		return 0
	})
	m.regions = slices.Insert(m.regions, i, r)
}

func (m *Memory) MapZero(addr, size uint64, prot process.MemProt) {
	m.Map(addr, make([]byte, size), prot)
}

func (m *Memory) AddModule(name string, base, size uint64) {
	m.mu.Lock()
	m.modules[strings.ToLower(name)] = process.Module{Name: name, Base: base, Size: size}
	m.mu.Unlock()
}

// Fail makes every subsequent read and write fault while set.
func (m *Memory) Fail(fail bool) {
	m.fail.Store(fail)
}

func (m *Memory) Reads() int64 {
	return m.reads.Load()
}

func (m *Memory) Writes() int64 {
	return m.writes.Load()
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *Memory) Closed() bool {
	return m.closed.Load()
}

func (m *Memory) Pid() int {
	return m.pid
}

func (m *Memory) Arch() process.Arch {
	return m.arch
}

func (m *Memory) MemRegions() iter.Seq[process.MemRegion] {
	return func(yield func(process.MemRegion) bool) {
		m.mu.Lock()
		regions := make([]process.MemRegion, len(m.regions))
		for i, r := range m.regions {
			regions[i] = r.MemRegion
		}
		m.mu.Unlock()
		for _, r := range regions {
			if !yield(r) {
				return
			}
		}
	}
}

func (m *Memory) Modules() (map[string]process.Module, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mods := make(map[string]process.Module, len(m.modules))
	for k, v := range m.modules {
		mods[k] = v
	}
	return mods, nil
}

func (m *Memory) find(addr, size uint64) *memRegion {
	for _, r := range m.regions {
		if r.Contains(addr) && addr+size <= r.End() {
			return r
		}
	}
	return nil
}

func (m *Memory) MemRead(addr, size uint64) ([]byte, error) {
	data := make([]byte, size)
	if size == 0 {
		return data, nil
	}
	err := m.MemReadPtr(addr, size, unsafe.Pointer(unsafe.SliceData(data)))
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Memory) MemReadPtr(addr, size uint64, ptr unsafe.Pointer) error {
	m.reads.Add(1)
	if m.closed.Load() {
		return process.NewReadFault(addr, size, process.ErrClosed)
	} else if m.fail.Load() {
		return process.NewReadFault(addr, size, nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(addr, size)
	if r == nil || !r.Readable() || r.Guarded() {
		return process.NewReadFault(addr, size, nil)
	}
	_, err := r.buf.ReadAt(unsafe.Slice((*byte)(ptr), size), int64(addr-r.Addr))
	if err != nil {
		return process.NewReadFault(addr, size, err)
	}
	return nil
}

func (m *Memory) MemWrite(addr uint64, data []byte) error {
	m.writes.Add(1)
	size := uint64(len(data))
	if m.closed.Load() {
		return process.NewWriteFault(addr, size, process.ErrClosed)
	} else if m.fail.Load() {
		return process.NewWriteFault(addr, size, nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(addr, size)
	if r == nil {
		return process.NewWriteFault(addr, size, nil)
	}
	_, err := r.buf.WriteAt(data, int64(addr-r.Addr))
	return err
}
