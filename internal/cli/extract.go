// Package cli provides command-line interface implementation for wakekeeper.
package cli

import (
	"github.com/spf13/cobra"

	"wakekeeper/internal/extract"
	"wakekeeper/internal/logging"
)

var extractDest string

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract memory dumps from an evidence archive",
	Long: `The extract command pulls every committed process memory dump back out of
a finished evidence archive so analysis tooling can read them directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractDest, "dest", "", "destination directory (default <archive>_dumps)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logging.New(verbose)
	defer log.Sync()

	archivePath := args[0]
	dest := extractDest
	if dest == "" {
		dest = archivePath + "_dumps"
	}

	n, err := extract.Dumps(archivePath, dest, log)
	if err != nil {
		return err
	}
	log.Infof("Extracted %d dumps to %s", n, dest)
	return nil
}
