//go:build !linux

package sysprobe

// CheckMemoryAccess reports that memory acquisition is unavailable here; the
// orchestrator skips the stage instead of attempting doomed reads.
func CheckMemoryAccess() error {
	return ErrUnsupported
}
