// Package cli provides command-line interface implementation for wakekeeper.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wakekeeper/internal/acquire"
	"wakekeeper/internal/logging"
	"wakekeeper/internal/parse"
	"wakekeeper/internal/schema"
	"wakekeeper/internal/sysprobe"
)

var (
	processName  string
	processID    int32
	screenshot   bool
	memory       bool
	openFiles    bool
	extractDumps bool
	output       string
	encryptAge   string
	parallel     int
)

// acquireCmd represents the acquire command.
var acquireCmd = &cobra.Command{
	Use:   "acquire",
	Short: "Capture volatile system state into an evidence archive",
	Long: `The acquire command snapshots the running system: the process inventory,
network connections, open and mapped files, raw process memory and a
screenshot are written into a single zip archive. Individual collection
failures are logged and skipped so the archive always contains whatever
evidence could be gathered.`,
	RunE: runAcquire,
}

func init() {
	acquireCmd.Flags().StringVar(&processName, "process-name", "", "limit acquisition to processes with this name")
	acquireCmd.Flags().Int32Var(&processID, "pid", 0, "limit acquisition to this process ID")
	acquireCmd.Flags().BoolVar(&screenshot, "screenshot", true, "capture a screenshot of the attached displays")
	acquireCmd.Flags().BoolVar(&memory, "memory", true, "dump the memory of in-scope processes")
	acquireCmd.Flags().BoolVar(&openFiles, "open-files", true, "copy open and mapped files into the archive")
	acquireCmd.Flags().BoolVar(&extractDumps, "extract-dumps", false, "extract committed memory dumps next to the archive")
	acquireCmd.Flags().StringVar(&output, "output", "", "archive path (default <hostname>-<timestamp>.zip)")
	acquireCmd.Flags().StringVar(&encryptAge, "encrypt-age", "", "Age public key for encryption (must start with age1)")
	acquireCmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent process dumps (1-64)")
}

func runAcquire(cmd *cobra.Command, args []string) error {
	log := logging.New(verbose)
	defer log.Sync()

	// Validate flags before touching the system
	if err := parse.ValidateSelection(processName, processID); err != nil {
		return err
	}
	if err := parse.ValidatePID(processID); err != nil {
		return err
	}
	if err := parse.ValidateParallel(parallel); err != nil {
		return err
	}
	if _, err := parse.ValidateAgeKey(encryptAge); err != nil {
		return err
	}

	// An interrupt stops further collection but the archive still finalizes
	// with everything committed so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := acquire.Options{
		ProcessName:      processName,
		ProcessID:        processID,
		Screenshot:       screenshot,
		IncludeMemory:    memory,
		IncludeOpenFiles: openFiles,
		ExtractDumps:     extractDumps,
		OutputPath:       output,
		AgeRecipient:     encryptAge,
		Parallelism:      parallel,
	}

	res, err := acquire.Run(ctx, sysprobe.New(), opts, log)
	if err != nil {
		return err
	}

	// Marshal and output JSON with pretty formatting
	jsonBytes, err := json.MarshalIndent(schema.NewAcquireOutput(res), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output JSON: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}
