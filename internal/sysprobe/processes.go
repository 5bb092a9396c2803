package sysprobe

import (
	"context"
	"errors"
	"strings"

	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// hostProcesses lists live processes through gopsutil. Individual attribute
// lookups that fail (permission, short-lived kernel threads) degrade to zero
// values; a process that disappears between enumeration and inspection is
// dropped from the result.
type hostProcesses struct{}

func (hostProcesses) ListProcesses(ctx context.Context) ([]ProcessRecord, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]ProcessRecord, 0, len(procs))
	for _, p := range procs {
		rec, ok := inspect(ctx, p)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// inspect builds one ProcessRecord. The bool result is false when the process
// exited mid-inspection.
func inspect(ctx context.Context, p *process.Process) (ProcessRecord, bool) {
	rec := ProcessRecord{PID: p.Pid}

	name, err := p.NameWithContext(ctx)
	if errors.Is(err, process.ErrorProcessNotRunning) {
		return ProcessRecord{}, false
	}
	rec.Name = name

	rec.Username, _ = p.UsernameWithContext(ctx)
	if status, err := p.StatusWithContext(ctx); err == nil {
		rec.Status = strings.Join(status, " ")
	}
	rec.Exe, _ = p.ExeWithContext(ctx)
	rec.Cmdline, _ = p.CmdlineWithContext(ctx)
	rec.ParentPID, _ = p.PpidWithContext(ctx)
	rec.CreateTime, _ = p.CreateTimeWithContext(ctx)

	if open, err := p.OpenFilesWithContext(ctx); err == nil {
		for _, of := range open {
			rec.OpenFiles = append(rec.OpenFiles, of.Path)
		}
	}

	if maps, err := p.MemoryMapsWithContext(ctx, false); err == nil && maps != nil {
		for _, m := range *maps {
			if m.Path != "" {
				rec.MappedFiles = append(rec.MappedFiles, m.Path)
			}
		}
	}

	if conns, err := p.ConnectionsWithContext(ctx); err == nil {
		rec.Connections = toConnectionRecords(conns)
	}

	return rec, true
}

// hostConnections enumerates sockets host-wide through gopsutil.
type hostConnections struct{}

func (hostConnections) ListConnections(ctx context.Context) ([]ConnectionRecord, error) {
	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, err
	}
	return toConnectionRecords(conns), nil
}

func toConnectionRecords(conns []gopsnet.ConnectionStat) []ConnectionRecord {
	var records []ConnectionRecord
	for _, c := range conns {
		records = append(records, ConnectionRecord{
			LocalIP:    c.Laddr.IP,
			LocalPort:  c.Laddr.Port,
			RemoteIP:   c.Raddr.IP,
			RemotePort: c.Raddr.Port,
			PID:        c.Pid,
		})
	}
	return records
}
