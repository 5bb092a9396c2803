package collect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"wakekeeper/internal/sysprobe"
)

// Selector narrows an acquisition to a single process by name or PID. The
// zero value selects everything. Name and PID are mutually exclusive; that is
// validated before any collection starts.
type Selector struct {
	Name string
	PID  int32
}

// IsZero reports whether the selector targets the whole machine.
func (s Selector) IsZero() bool { return s.Name == "" && s.PID == 0 }

// Matches applies the selector to one record. Name matching is
// case-insensitive, following the host facility's lookup semantics.
func (s Selector) Matches(rec sysprobe.ProcessRecord) bool {
	if s.PID != 0 {
		return rec.PID == s.PID
	}
	if s.Name != "" {
		return strings.EqualFold(rec.Name, s.Name)
	}
	return true
}

// Filter returns the records in scope for this selector, preserving
// enumeration order.
func Filter(recs []sysprobe.ProcessRecord, sel Selector) []sysprobe.ProcessRecord {
	if sel.IsZero() {
		return recs
	}
	var out []sysprobe.ProcessRecord
	for _, rec := range recs {
		if sel.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// NamesByPID indexes an enumeration for connection labeling.
func NamesByPID(recs []sysprobe.ProcessRecord) map[int32]string {
	names := make(map[int32]string, len(recs))
	for _, rec := range recs {
		names[rec.PID] = rec.Name
	}
	return names
}

// ProcessRows converts records into processes.json rows. The capture instant
// stamps each record's connection lines.
func ProcessRows(recs []sysprobe.ProcessRecord, now time.Time) []ProcessRow {
	rows := make([]ProcessRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, ProcessRow{
			ProcessID:       rec.PID,
			Name:            rec.Name,
			Username:        rec.Username,
			Status:          rec.Status,
			ExecutablePath:  rec.Exe,
			Command:         rec.Cmdline,
			ParentID:        rec.ParentPID,
			CreationTime:    time.UnixMilli(rec.CreateTime).UTC().Format("2006-01-02 15:04:05"),
			OpenFiles:       strings.Join(rec.OpenFiles, " "),
			Connections:     connectionLines(rec.Connections, now),
			MappedFilepaths: strings.Join(rec.MappedFiles, ","),
		})
	}
	return rows
}

// connectionLines renders a record's peered sockets as CRLF-joined
// "<unixSeconds> <localIP> <localPort> <remoteIP> <remotePort>" lines.
// Sockets without both endpoints are omitted.
func connectionLines(conns []sysprobe.ConnectionRecord, now time.Time) string {
	var lines []string
	stamp := strconv.FormatInt(now.Unix(), 10)
	for _, c := range conns {
		if c.LocalIP == "" || c.RemoteIP == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %d %s %d", stamp, c.LocalIP, c.LocalPort, c.RemoteIP, c.RemotePort))
	}
	return strings.Join(lines, "\r\n")
}
