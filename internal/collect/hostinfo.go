package collect

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo is the host.json artifact: the identity and clock context of the
// machine the evidence was taken from. Every field is best-effort; lookups
// that fail leave their zero value.
type HostInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	Platform      string `json:"platform"`
	KernelVersion string `json:"kernel_version"`
	Arch          string `json:"arch"`
	BootTimeUTC   string `json:"boot_time_utc"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
	CollectedUTC  string `json:"collected_utc"`
}

// DescribeHost snapshots the host identity at the capture instant.
func DescribeHost(ctx context.Context, now time.Time) HostInfo {
	info := HostInfo{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		CollectedUTC: now.UTC().Format(time.RFC3339),
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if platform, _, version, err := host.PlatformInformationWithContext(ctx); err == nil {
		info.Platform = platform
		if version != "" {
			info.Platform = platform + " " + version
		}
	}
	if kernel, err := host.KernelVersionWithContext(ctx); err == nil {
		info.KernelVersion = kernel
	}
	if bootTime, err := host.BootTimeWithContext(ctx); err == nil && bootTime > 0 {
		info.BootTimeUTC = time.Unix(int64(bootTime), 0).UTC().Format(time.RFC3339)
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		info.UptimeSeconds = uptime
	}

	return info
}

// MarshalHostInfo encodes the artifact with pretty formatting.
func MarshalHostInfo(info HostInfo) ([]byte, error) {
	return json.MarshalIndent(info, "", " ")
}
