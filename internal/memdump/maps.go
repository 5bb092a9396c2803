// Package memdump implements wakekeeper's volatile memory acquisition:
// discovering a process's readable virtual address ranges, reading them
// through the privileged foreign-memory primitive, and committing the
// concatenated bytes into the evidence archive one process at a time.
package memdump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// Region is a half-open [Start, End) range of a process's virtual address
// space. Only readable regions are ever constructed and Start < End holds for
// every value produced by this package.
type Region struct {
	Start uint64
	End   uint64
}

// Size returns the region length in bytes.
func (r Region) Size() uint64 { return r.End - r.Start }

// mapsLine is the strict grammar for one layout record line: two hex
// addresses joined by a dash, whitespace, then the read bit of the permission
// column. Lines that do not match are treated as absent, never as an error.
var mapsLine = regexp.MustCompile(`^([0-9a-fA-F]+)-([0-9a-fA-F]+)\s+(r|-)`)

// ParseMapsRecord extracts the readable regions from a virtual-memory-layout
// record in /proc/<pid>/maps format. Order is preserved from the record.
// Unparseable lines and degenerate ranges (start >= end) are dropped.
func ParseMapsRecord(r io.Reader) []Region {
	var regions []Region

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		groups := mapsLine.FindStringSubmatch(sc.Text())
		if groups == nil || groups[3] != "r" {
			continue
		}

		start, err := strconv.ParseUint(groups[1], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(groups[2], 16, 64)
		if err != nil {
			continue
		}
		if start >= end {
			continue
		}

		regions = append(regions, Region{Start: start, End: end})
	}

	return regions
}

// RegionSource yields the readable regions of one process. An empty result
// means the process cannot be dumped; that is never fatal to the run.
type RegionSource interface {
	Regions(pid int32, name string) []Region
}

// procMapsSource reads the live per-process layout record from /proc.
type procMapsSource struct {
	log *zap.SugaredLogger
}

// NewProcMapsSource returns the RegionSource backed by /proc/<pid>/maps.
func NewProcMapsSource(log *zap.SugaredLogger) RegionSource {
	return &procMapsSource{log: log}
}

func (s *procMapsSource) Regions(pid int32, name string) []Region {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", pid))
	if err != nil {
		switch {
		case os.IsNotExist(err):
			s.log.Warnf("No memory map for %s (pid %d), cannot dump this process", name, pid)
		case os.IsPermission(err):
			s.log.Warnf("Permission denied reading memory map for %s (pid %d), cannot dump this process", name, pid)
		default:
			s.log.Warnf("Failed to read memory map for %s (pid %d): %v", name, pid, err)
		}
		return nil
	}
	defer f.Close()

	return ParseMapsRecord(f)
}
