package emulator

import (
	"io"

	"github.com/wnxd/psxhook/process"
)

// Emulator reads and writes emulated RAM by offset from its start.
//
// Failed operations do not return errors from Read and Write: they are
// logged and latch the accessor as broken, which PollErrors reports.
// ReadAt and WriteAt still return the error and latch as well.
type Emulator interface {
	io.Closer
	io.ReaderAt
	io.WriterAt
	Process() process.Process
	Base() uint64
	Read(off uint32, size int) []byte
	Write(off uint32, data []byte)
	PollErrors() bool
	Err() error
}
