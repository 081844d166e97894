// Arduplot streams live variables to a plot listener over a serial port, a CAN bus, a recording file or stdout.
//
// Usage:
//
//	arduplot run [flags]
//	arduplot replay --file logs/PLOTLOG.txt [flags]
//	arduplot ports
//	arduplot version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arduplot",
	Short: "Stream live variables to a plot listener",
	Long: `Registers graphs of live variables and emits their values as text frames
(dt*...|...dt*) to a listener that plots them.

Graphs come from a yaml layout, each variable fed by a simulated source.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arduplot %s\n", Version)
	},
}
