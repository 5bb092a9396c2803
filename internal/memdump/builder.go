package memdump

import (
	"context"
	"fmt"
	"io"
	"math"
	"path"
	"sync"

	"go.uber.org/zap"

	"wakekeeper/internal/archive"
	"wakekeeper/internal/sysprobe"
)

// dumpNamespace is the archive directory all process dumps land under.
const dumpNamespace = "process_dumps"

// Result captures the outcome of dumping one process. A process with no
// readable regions or no readable bytes produces no entry; that is a skip,
// not an error.
type Result struct {
	PID         int32  `json:"pid"`
	Process     string `json:"process"`
	Entry       string `json:"entry,omitempty"`
	Regions     int    `json:"regions"`
	FailedReads int    `json:"failed_reads"`
	Bytes       int64  `json:"bytes"`
	Dumped      bool   `json:"dumped"`
	Error       string `json:"error,omitempty"`
}

// Sink is the slice of the evidence archive the builder commits dumps into.
type Sink interface {
	AddReader(name string, r io.Reader) error
}

// Builder acquires raw process memory and commits per-process dump entries.
type Builder struct {
	regions     RegionSource
	reader      sysprobe.MemoryReader
	sink        Sink
	log         *zap.SugaredLogger
	spoolBytes  int64
	parallelism int
}

// NewBuilder wires a Builder. Parallelism below 1 means sequential; values
// are clamped to 1..64.
func NewBuilder(regions RegionSource, reader sysprobe.MemoryReader, sink Sink, parallelism int, log *zap.SugaredLogger) *Builder {
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > 64 {
		parallelism = 64
	}
	return &Builder{
		regions:     regions,
		reader:      reader,
		sink:        sink,
		log:         log,
		parallelism: parallelism,
	}
}

// DumpProcess acquires one process: enumerate its readable regions, read
// them in order into a scratch sink, and commit the sink as
// process_dumps/<name>_<pid>.mem when at least one byte was captured. A
// region that fails to read is skipped and the dump continues; the scratch
// sink is released whether or not the commit happened.
func (b *Builder) DumpProcess(ctx context.Context, rec sysprobe.ProcessRecord) Result {
	res := Result{PID: rec.PID, Process: rec.Name}

	regions := b.regions.Regions(rec.PID, rec.Name)
	res.Regions = len(regions)
	if len(regions) == 0 {
		return res
	}

	sink := newSpool(b.spoolBytes)
	defer sink.Release()

	for _, region := range regions {
		if ctx.Err() != nil {
			// Cancelled mid-process: commit whatever was captured so far.
			break
		}

		size := region.Size()
		if size > math.MaxInt32 {
			res.FailedReads++
			b.log.Warnf("Skipping oversized region 0x%x-0x%x for %s (pid %d)", region.Start, region.End, rec.Name, rec.PID)
			continue
		}

		block, err := b.reader.ReadFromProcess(rec.PID, region.Start, int(size))
		if err != nil {
			res.FailedReads++
			b.log.Warnf("Failed to read region 0x%x-0x%x for %s (pid %d), dump may be incomplete: %v", region.Start, region.End, rec.Name, rec.PID, err)
			continue
		}

		if _, err := sink.Write(block); err != nil {
			// Scratch I/O failure aborts this process's remaining regions only.
			res.Error = err.Error()
			b.log.Warnf("Scratch sink failed for %s (pid %d): %v", rec.Name, rec.PID, err)
			break
		}
	}

	res.Bytes = sink.Size()
	if res.Bytes == 0 {
		return res
	}

	entry := path.Join(dumpNamespace, fmt.Sprintf("%s_%d.mem", archive.CleanName(rec.Name), rec.PID))
	content, err := sink.Reader()
	if err != nil {
		res.Error = err.Error()
		b.log.Warnf("Could not replay dump for %s (pid %d): %v", rec.Name, rec.PID, err)
		return res
	}
	if err := b.sink.AddReader(entry, content); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Entry = entry
	res.Dumped = true
	return res
}

// DumpAll runs DumpProcess over every record with one worker per process,
// bounded by the configured parallelism. Workers share nothing but the
// archive, which serializes its own writers; a failed process never stops
// the others. Cancellation stops scheduling new processes; the results for
// processes already in flight are still collected.
func (b *Builder) DumpAll(ctx context.Context, recs []sysprobe.ProcessRecord) []Result {
	if len(recs) == 0 {
		return nil
	}

	semaphore := make(chan struct{}, b.parallelism)
	results := make(chan Result, len(recs))
	var wg sync.WaitGroup

	for _, rec := range recs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(rec sysprobe.ProcessRecord) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				results <- Result{PID: rec.PID, Process: rec.Name, Error: ctx.Err().Error()}
				return
			}
			results <- b.DumpProcess(ctx, rec)
		}(rec)
	}

	wg.Wait()
	close(results)

	all := make([]Result, 0, len(recs))
	for res := range results {
		all = append(all, res)
	}
	return all
}
