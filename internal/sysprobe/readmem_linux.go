//go:build linux

package sysprobe

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// vmReader reads foreign process memory with the process_vm_readv syscall.
// One call covers one contiguous range; the kernel rejects reads that cross
// unmapped or protected pages, which callers treat as skip-this-region.
type vmReader struct{}

func newMemoryReader() MemoryReader { return vmReader{} }

func (vmReader) ReadFromProcess(pid int32, addr uint64, length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("invalid read length %d", length)
	}

	buf := make([]byte, length)
	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(length)
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: length}}

	if _, err := unix.ProcessVMReadv(int(pid), local, remote, 0); err != nil {
		return nil, fmt.Errorf("process_vm_readv pid %d addr 0x%x: %w", pid, addr, err)
	}

	// The kernel may deliver fewer bytes than requested when the tail of the
	// range is gone; the block is returned whole, zero-padded, so one region
	// maps to one fixed-size chunk of the dump.
	return buf, nil
}
