// Package sysprobe exposes the host introspection capabilities wakekeeper
// acquires evidence through: process inventory, socket enumeration, display
// capture, and the privileged foreign-memory read primitive. The acquisition
// core depends only on the interfaces defined here, so tests substitute fakes
// and platforms substitute their own primitives.
package sysprobe

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by capabilities the current platform cannot
// provide, such as foreign-memory reads outside Linux.
var ErrUnsupported = errors.New("capability not supported on this platform")

// ProcessRecord is one process observed during inventory enumeration.
// Records are produced once per acquisition run and never mutated afterwards.
type ProcessRecord struct {
	PID         int32
	Name        string
	Username    string
	Status      string
	Exe         string
	Cmdline     string
	ParentPID   int32
	CreateTime  int64 // milliseconds since the Unix epoch
	OpenFiles   []string
	MappedFiles []string
	Connections []ConnectionRecord
}

// ConnectionRecord is one socket with both endpoints populated.
type ConnectionRecord struct {
	LocalIP    string
	LocalPort  uint32
	RemoteIP   string
	RemotePort uint32
	PID        int32
}

// ProcessLister enumerates the live processes on the host.
type ProcessLister interface {
	ListProcesses(ctx context.Context) ([]ProcessRecord, error)
}

// ConnectionLister enumerates active sockets host-wide. Implementations
// return an error when the platform denies enumeration; callers degrade to an
// empty snapshot.
type ConnectionLister interface {
	ListConnections(ctx context.Context) ([]ConnectionRecord, error)
}

// DisplayCapturer grabs all connected displays composited into one image and
// returns the encoded bytes.
type DisplayCapturer interface {
	CaptureDisplays() ([]byte, error)
}

// MemoryReader performs one privileged cross-process read covering
// [addr, addr+length). A failed read returns a nil slice and the cause; a
// successful read returns the full requested block.
type MemoryReader interface {
	ReadFromProcess(pid int32, addr uint64, length int) ([]byte, error)
}

// Probe bundles the host capabilities for one acquisition run.
type Probe struct {
	Processes ProcessLister
	Network   ConnectionLister
	Display   DisplayCapturer
	Memory    MemoryReader
}

// New returns a Probe wired to the host implementations for this platform.
func New() *Probe {
	return &Probe{
		Processes: &hostProcesses{},
		Network:   &hostConnections{},
		Display:   &hostDisplays{},
		Memory:    newMemoryReader(),
	}
}
