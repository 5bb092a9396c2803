// Package acquire drives one acquisition run: validate the options, snapshot
// the machine's volatile state through the host probe, and hand every
// artifact to the evidence archive in a fixed order. Failures below the two
// fatal ones (conflicting selectors, archive creation) degrade to logged
// omissions; the run always finalizes whatever evidence it gathered.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"wakekeeper/internal/archive"
	"wakekeeper/internal/collect"
	"wakekeeper/internal/extract"
	"wakekeeper/internal/memdump"
	"wakekeeper/internal/parse"
	"wakekeeper/internal/sysprobe"
)

// Options are the recognized run options, immutable for the run's duration.
// ProcessName and ProcessID are mutually exclusive.
type Options struct {
	ProcessName      string
	ProcessID        int32
	Screenshot       bool
	IncludeMemory    bool
	IncludeOpenFiles bool
	ExtractDumps     bool
	OutputPath       string
	AgeRecipient     string
	Parallelism      int
}

// Result summarizes one finished run.
type Result struct {
	RunID          string
	Hostname       string
	ArchivePath    string
	Sealed         bool
	Processes      int
	NetstatLines   int
	OpenFiles      int
	FilesCopied    int
	DumpsCommitted int
	EntriesWritten int
	EntriesFailed  int
	StartedAt      time.Time
	Duration       time.Duration
}

// State is the run-scoped acquisition state threaded through the steps, kept
// explicit so the memory stage can fan out workers without hidden sharing.
type State struct {
	All       []sysprobe.ProcessRecord
	Scoped    []sysprobe.ProcessRecord
	Netstat   []string
	OpenFiles []string
	Dumps     []memdump.Result
}

// runner sequences the acquisition states over one archive.
type runner struct {
	probe    *sysprobe.Probe
	opts     Options
	fs       afero.Fs
	log      *zap.SugaredLogger
	arch     *archive.Archive
	state    State
	hostname string
	stamp    int64
}

// Run performs one acquisition. The context cancels cooperatively: a cancel
// mid-run stops further collection but still finalizes the archive with
// everything committed so far.
func Run(ctx context.Context, probe *sysprobe.Probe, opts Options, log *zap.SugaredLogger) (*Result, error) {
	started := time.Now()

	if err := parse.ValidateSelection(opts.ProcessName, opts.ProcessID); err != nil {
		return nil, err
	}
	if opts.AgeRecipient != "" {
		if err := archive.ValidateRecipient(opts.AgeRecipient); err != nil {
			return nil, err
		}
	}

	r := &runner{
		probe:    probe,
		opts:     opts,
		fs:       afero.NewOsFs(),
		log:      log,
		hostname: hostname(),
		stamp:    started.Unix(),
	}
	log.Infof("Acquiring system %s at %s", r.hostname, started.Format("2006-01-02 15:04:05"))

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = fmt.Sprintf("%s-%d.zip", r.hostname, r.stamp)
	}
	arch, err := archive.Open(outPath, log)
	if err != nil {
		return nil, err
	}
	r.arch = arch

	r.collectInventory(ctx)
	r.collectNetwork(ctx, started)
	r.resolveOpenFiles(ctx)
	r.acquireMemory(ctx)
	copied := r.finalize(ctx, started)

	written, failed := arch.Counts()
	if err := arch.Close(); err != nil {
		log.Warnf("Failed to finalize archive: %v", err)
	}

	res := &Result{
		RunID:          uuid.New().String(),
		Hostname:       r.hostname,
		ArchivePath:    arch.Path(),
		Processes:      len(r.state.Scoped),
		NetstatLines:   len(r.state.Netstat),
		OpenFiles:      len(r.state.OpenFiles),
		FilesCopied:    copied,
		DumpsCommitted: dumpCount(r.state.Dumps),
		EntriesWritten: written,
		EntriesFailed:  failed,
		StartedAt:      started,
	}

	if opts.ExtractDumps {
		dest := arch.Path() + "_dumps"
		if n, err := extract.Dumps(arch.Path(), dest, log); err != nil {
			log.Warnf("Dump extraction failed: %v", err)
		} else {
			log.Infof("Extracted %d dumps to %s", n, dest)
		}
	}

	if opts.AgeRecipient != "" {
		sealed, err := archive.SealWithAge(arch.Path(), opts.AgeRecipient)
		if err != nil {
			log.Warnf("Failed to seal archive: %v", err)
		} else {
			res.ArchivePath = sealed
			res.Sealed = true
		}
	}

	res.Duration = time.Since(started)
	log.Infof("Acquisition complete, output file is located: %s", res.ArchivePath)
	return res, nil
}

// collectInventory enumerates every live process once, then narrows to the
// selector's scope. Enumeration failure degrades to an empty inventory.
func (r *runner) collectInventory(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	all, err := r.probe.Processes.ListProcesses(ctx)
	if err != nil {
		r.log.Warnf("Failed to enumerate processes: %v", err)
		return
	}
	r.state.All = all

	sel := collect.Selector{Name: r.opts.ProcessName, PID: r.opts.ProcessID}
	r.state.Scoped = collect.Filter(all, sel)
	if !sel.IsZero() && len(r.state.Scoped) == 0 {
		r.log.Warnf("No process matched the requested selector")
	}
}

func (r *runner) collectNetwork(ctx context.Context, now time.Time) {
	if ctx.Err() != nil {
		return
	}
	r.state.Netstat = collect.Netstat(ctx, r.probe.Network, collect.NamesByPID(r.state.All), now, r.log)
}

func (r *runner) resolveOpenFiles(ctx context.Context) {
	if ctx.Err() != nil || !r.opts.IncludeOpenFiles {
		return
	}
	r.state.OpenFiles = collect.ResolveOpenFiles(r.fs, r.state.Scoped)
}

// acquireMemory dumps every in-scope process, one worker per process. The
// stage is skipped wholesale when the platform lacks a read primitive and
// proceeds with a warning when running unprivileged.
func (r *runner) acquireMemory(ctx context.Context) {
	if ctx.Err() != nil || !r.opts.IncludeMemory {
		return
	}

	switch err := sysprobe.CheckMemoryAccess(); {
	case err == nil:
	case errors.Is(err, sysprobe.ErrUnsupported):
		r.log.Warnf("Memory acquisition is not supported on this platform, skipping")
		return
	default:
		r.log.Warnf("Running without elevated privileges, memory dumps may be incomplete: %v", err)
	}

	builder := memdump.NewBuilder(
		memdump.NewProcMapsSource(r.log),
		r.probe.Memory,
		r.arch,
		r.opts.Parallelism,
		r.log,
	)
	r.state.Dumps = builder.DumpAll(ctx, r.state.Scoped)
}

// finalize writes the host identity, the structured tables, the screenshot,
// the netstat log and the open-file copies, in that order. Every write is
// independent; a failed entry is logged and the rest are still attempted.
// Returns the number of open files copied.
func (r *runner) finalize(ctx context.Context, now time.Time) int {
	if data, err := collect.MarshalHostInfo(collect.DescribeHost(ctx, now)); err == nil {
		r.arch.AddArtifact("host.json", data)
	} else {
		r.log.Warnf("Failed to encode host info: %v", err)
	}

	if data, err := collect.MarshalProcessTable(collect.ProcessRows(r.state.Scoped, now)); err == nil {
		r.arch.AddArtifact("processes.json", data)
	} else {
		r.log.Warnf("Failed to encode process table: %v", err)
	}

	if data, err := collect.MarshalOpenFileTable(r.state.OpenFiles); err == nil {
		r.arch.AddArtifact("open_files.json", data)
	} else {
		r.log.Warnf("Failed to encode open-file table: %v", err)
	}

	if r.opts.Screenshot && ctx.Err() == nil {
		if img, err := r.probe.Display.CaptureDisplays(); err != nil {
			r.log.Warnf("Unable to take screenshot: %v", err)
		} else {
			r.arch.AddArtifact(fmt.Sprintf("%s-%d.png", r.hostname, r.stamp), img)
		}
	}

	if len(r.state.Netstat) > 0 {
		r.log.Infof("Adding netstat data")
		r.arch.AddArtifact("netstat.log", []byte(strings.Join(r.state.Netstat, "\r\n")))
	}

	copied := 0
	for _, p := range r.state.OpenFiles {
		if ctx.Err() != nil {
			break
		}
		r.log.Infof("Adding open file %s", p)
		if res := r.arch.AddFileCopy(r.fs, p); res.Written {
			copied++
		}
	}
	return copied
}

func dumpCount(results []memdump.Result) int {
	n := 0
	for _, res := range results {
		if res.Dumped {
			n++
		}
	}
	return n
}

// hostname returns the machine name reduced to safe archive characters.
func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "unknown"
	}
	return archive.CleanName(name)
}
