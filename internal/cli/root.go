// Package cli provides command-line interface implementation for wakekeeper.
package cli

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wakekeeper",
	Short: "A CLI tool for live acquisition of volatile evidence",
	Long: `wakekeeper captures the volatile state of a running machine (process
inventory, network connections, open files, process memory and the screen)
into a single evidence archive for incident response.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help and exit 0 if no subcommand is provided
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(acquireCmd)
	rootCmd.AddCommand(extractCmd)
}
