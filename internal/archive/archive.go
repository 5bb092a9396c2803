// Package archive owns the evidence container: a zip file every acquisition
// artifact is written into, one entry per artifact. The archive is the single
// shared mutable resource of a run; all writers are serialized here, and a
// failure writing one entry never invalidates entries already written or
// entries still to come.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MaxFileCopyBytes is the ceiling for artifacts sourced from filesystem
// copies. Oversized candidates are skipped, never truncated.
const MaxFileCopyBytes = 10_000_000

// ErrClosed is returned for writes after the archive was finalized.
var ErrClosed = errors.New("evidence archive already closed")

// Result reports what happened to one candidate artifact. Expected skips
// (oversized file, vanished file, permission denied) are results, not errors.
type Result struct {
	Entry   string `json:"entry"`
	Written bool   `json:"written"`
	Reason  string `json:"reason,omitempty"`
}

// Archive is the append-only evidence container for one acquisition run.
type Archive struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	zw      *zip.Writer
	names   map[string]struct{}
	written int
	failed  int
	closed  bool
	log     *zap.SugaredLogger
}

// Open creates the container at path, appending the .zip suffix when it is
// missing. Creation failure is the one archive error that aborts a run.
func Open(path string, log *zap.SugaredLogger) (*Archive, error) {
	if !strings.HasSuffix(path, ".zip") {
		path += ".zip"
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create evidence archive %s: %w", path, err)
	}

	return &Archive{
		path:  path,
		file:  f,
		zw:    zip.NewWriter(f),
		names: make(map[string]struct{}),
		log:   log,
	}, nil
}

// Path returns the container's normalized location on disk.
func (a *Archive) Path() string { return a.path }

// AddArtifact writes one named byte payload as its own entry.
func (a *Archive) AddArtifact(name string, data []byte) error {
	return a.AddReader(name, bytes.NewReader(data))
}

// AddReader streams one entry from r. Each call is independent: an I/O
// failure is logged and counted, and later entries are still attempted.
func (a *Archive) AddReader(name string, r io.Reader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	if _, dup := a.names[name]; dup {
		return fmt.Errorf("duplicate archive entry %s", name)
	}

	w, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err == nil {
		_, err = io.Copy(w, r)
	}
	if err != nil {
		a.failed++
		a.log.Warnf("Failed to write archive entry %s: %v", name, err)
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}

	a.names[name] = struct{}{}
	a.written++
	return nil
}

// AddFileCopy copies one file from fs into the archive under its root-relative
// path. The file is size-checked before a single byte is read; anything empty
// or above MaxFileCopyBytes is skipped with a reason rather than truncated.
func (a *Archive) AddFileCopy(fs afero.Fs, srcPath string) Result {
	entry := StripRoot(srcPath)

	info, err := fs.Stat(srcPath)
	if err != nil {
		a.log.Warnf("Could not open %s for reading: %v", srcPath, err)
		return Result{Entry: entry, Reason: "vanished before copy"}
	}
	if info.Size() == 0 {
		return Result{Entry: entry, Reason: "empty file"}
	}
	if info.Size() > MaxFileCopyBytes {
		a.log.Warnf("Skipping file as too large: %s (%d bytes)", srcPath, info.Size())
		return Result{Entry: entry, Reason: "exceeds size ceiling"}
	}

	f, err := fs.Open(srcPath)
	if err != nil {
		if os.IsPermission(err) {
			a.log.Warnf("Permission denied copying %s", srcPath)
			return Result{Entry: entry, Reason: "permission denied"}
		}
		a.log.Warnf("Could not open %s for reading: %v", srcPath, err)
		return Result{Entry: entry, Reason: "unreadable"}
	}
	defer f.Close()

	if err := a.AddReader(entry, f); err != nil {
		return Result{Entry: entry, Reason: "archive write failed"}
	}
	return Result{Entry: entry, Written: true}
}

// Counts reports entries written and entry writes failed so far.
func (a *Archive) Counts() (written, failed int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.written, a.failed
}

// Close finalizes the container exactly once. Entries already written stay
// durable even when finalization itself fails.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}
	a.closed = true

	zerr := a.zw.Close()
	ferr := a.file.Close()
	if zerr != nil {
		return fmt.Errorf("failed to finalize evidence archive: %w", zerr)
	}
	if ferr != nil {
		return fmt.Errorf("failed to close evidence archive: %w", ferr)
	}
	return nil
}
