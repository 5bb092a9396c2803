package memdump

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// defaultSpoolThreshold is how much of a dump is held in memory before the
// scratch sink rolls over to a temp file. Dumps regularly exceed RAM-friendly
// sizes, so anything larger streams through disk instead.
const defaultSpoolThreshold = 64 << 20

// spool is the scratch byte sink a process dump accumulates into before it is
// committed to the archive. It buffers in memory up to a threshold, then
// rolls over into a temp file. Release must always be called, whether or not
// the content was committed.
type spool struct {
	threshold int64
	size      int64
	buf       bytes.Buffer
	file      *os.File
	rolled    bool
}

func newSpool(threshold int64) *spool {
	if threshold <= 0 {
		threshold = defaultSpoolThreshold
	}
	return &spool{threshold: threshold}
}

func (s *spool) Write(p []byte) (int, error) {
	if !s.rolled && s.size+int64(len(p)) > s.threshold {
		if err := s.rollover(); err != nil {
			return 0, err
		}
	}

	var n int
	var err error
	if s.rolled {
		n, err = s.file.Write(p)
	} else {
		n, err = s.buf.Write(p)
	}
	s.size += int64(n)
	return n, err
}

// rollover moves the buffered content into a fresh temp file and switches all
// subsequent writes to it.
func (s *spool) rollover() error {
	f, err := os.CreateTemp("", "wakekeeper_dump_*")
	if err != nil {
		return fmt.Errorf("failed to create dump scratch file: %w", err)
	}
	if _, err := io.Copy(f, &s.buf); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to spill dump buffer: %w", err)
	}
	s.buf.Reset()
	s.file = f
	s.rolled = true
	return nil
}

// Size reports the bytes accumulated so far.
func (s *spool) Size() int64 { return s.size }

// Reader positions the sink at the start and returns a reader over the full
// content. Writing after Reader is not supported.
func (s *spool) Reader() (io.Reader, error) {
	if s.rolled {
		if _, err := s.file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		return s.file, nil
	}
	return &s.buf, nil
}

// Release drops the buffered content and removes the temp file if one was
// created. Safe to call multiple times.
func (s *spool) Release() error {
	s.buf.Reset()
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	err := s.file.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}
	s.file = nil
	return err
}
