package collect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wakekeeper/internal/sysprobe"
)

// Netstat snapshots active connections as
// "<timestamp> <localIP> <localPort> <remoteIP> <remotePort> <processName>"
// lines. Enumeration failure (typically access denied without privileges)
// degrades to an empty snapshot with a warning; the run continues and the
// netstat artifact is simply absent. A connection whose owner cannot be
// resolved from the inventory is labeled "-" rather than dropped.
func Netstat(ctx context.Context, lister sysprobe.ConnectionLister, names map[int32]string, now time.Time, log *zap.SugaredLogger) []string {
	conns, err := lister.ListConnections(ctx)
	if err != nil {
		log.Warnf("Access denied attempting to get network connections: %v", err)
		return nil
	}

	stamp := now.Format("2006-01-02 15:04:05")
	var lines []string
	for _, c := range conns {
		if c.LocalIP == "" || c.RemoteIP == "" {
			continue
		}
		name := names[c.PID]
		if name == "" {
			name = "-"
		}
		lines = append(lines, fmt.Sprintf("%s %s %d %s %d %s", stamp, c.LocalIP, c.LocalPort, c.RemoteIP, c.RemotePort, name))
	}
	return lines
}
