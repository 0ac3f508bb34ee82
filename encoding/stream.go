package encoding

import (
	"io"
)

type Stream interface {
	Offset() int64
	Skip(int) error
	Read([]byte) (int, error)
	Write([]byte) (int, error)
}

type offsetStream struct {
	r   io.ReaderAt
	w   io.WriterAt
	off int64
}

// NewStream walks r and w from off. Either may be nil when only one
// direction is needed.
func NewStream(r io.ReaderAt, w io.WriterAt, off int64) Stream {
	return &offsetStream{r, w, off}
}

func (s *offsetStream) Offset() int64 {
	return s.off
}

func (s *offsetStream) Skip(n int) error {
	s.off += int64(n)
	return nil
}

func (s *offsetStream) Read(b []byte) (int, error) {
	if s.r == nil {
		return 0, io.ErrClosedPipe
	}
	n, err := s.r.ReadAt(b, s.off)
	if err == io.EOF && n == len(b) {
		err = nil
	}
	if err == nil {
		s.off += int64(n)
	}
	return n, err
}

func (s *offsetStream) Write(b []byte) (int, error) {
	if s.w == nil {
		return 0, io.ErrClosedPipe
	}
	n, err := s.w.WriteAt(b, s.off)
	if err == nil {
		s.off += int64(n)
	}
	return n, err
}
