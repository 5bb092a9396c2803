// Package schema defines the data structures for wakekeeper's output formats.
package schema

import (
	"time"

	"wakekeeper/internal/acquire"
)

// AcquireOutput represents the complete JSON output structure for an acquire command execution.
type AcquireOutput struct {
	Command         string  `json:"command"`
	RunID           string  `json:"run_id"`
	Hostname        string  `json:"hostname"`
	ArchivePath     string  `json:"archive_path"`
	Encrypted       bool    `json:"encrypted"`
	Processes       int     `json:"processes"`
	NetstatLines    int     `json:"netstat_lines"`
	OpenFiles       int     `json:"open_files"`
	FilesCopied     int     `json:"files_copied"`
	DumpsCommitted  int     `json:"dumps_committed"`
	EntriesWritten  int     `json:"entries_written"`
	EntriesFailed   int     `json:"entries_failed"`
	DurationSeconds float64 `json:"duration_seconds"`
	TimestampUTC    string  `json:"timestamp_utc"`
}

// NewAcquireOutput creates an AcquireOutput from a finished acquisition run.
func NewAcquireOutput(res *acquire.Result) *AcquireOutput {
	return &AcquireOutput{
		Command:         "acquire",
		RunID:           res.RunID,
		Hostname:        res.Hostname,
		ArchivePath:     res.ArchivePath,
		Encrypted:       res.Sealed,
		Processes:       res.Processes,
		NetstatLines:    res.NetstatLines,
		OpenFiles:       res.OpenFiles,
		FilesCopied:     res.FilesCopied,
		DumpsCommitted:  res.DumpsCommitted,
		EntriesWritten:  res.EntriesWritten,
		EntriesFailed:   res.EntriesFailed,
		DurationSeconds: res.Duration.Seconds(),
		TimestampUTC:    res.StartedAt.UTC().Format(time.RFC3339),
	}
}
