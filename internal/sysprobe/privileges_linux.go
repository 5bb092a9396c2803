//go:build linux

package sysprobe

import (
	"errors"

	"golang.org/x/sys/unix"
)

const capSysPtrace = 19

// ErrNotPrivileged indicates the process lacks root and CAP_SYS_PTRACE, so
// foreign-memory reads will only succeed against same-user processes.
var ErrNotPrivileged = errors.New("not running with root or CAP_SYS_PTRACE")

// CheckMemoryAccess verifies the current process can expect cross-process
// memory reads to succeed. It returns nil when running as root or holding
// CAP_SYS_PTRACE, ErrNotPrivileged otherwise. Callers warn and proceed:
// unprivileged runs can still dump processes owned by the same user.
func CheckMemoryAccess() error {
	if unix.Geteuid() == 0 {
		return nil
	}

	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err == nil {
		if data[0].Effective&(1<<capSysPtrace) != 0 {
			return nil
		}
	}

	return ErrNotPrivileged
}
