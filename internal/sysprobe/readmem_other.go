//go:build !linux

package sysprobe

// unsupportedReader stands in on platforms without a foreign-memory read
// primitive. Every read fails with ErrUnsupported and the acquisition
// orchestrator skips memory collection entirely.
type unsupportedReader struct{}

func newMemoryReader() MemoryReader { return unsupportedReader{} }

func (unsupportedReader) ReadFromProcess(pid int32, addr uint64, length int) ([]byte, error) {
	return nil, ErrUnsupported
}
