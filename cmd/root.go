package cmd

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-01-02T03:04+0000"
	osArch           = "linux"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use: "bgate",
	Long: `
___.           __                  __
\_ |__ _____ _/  |_  ____ |  |__  / ____\____  _/  |_  ____
 | __ \\__  \\   __\/ ___\|  |  \/ /_/ _ \|  |\   __\/ __ \
 | \_\ \/ __ \|  | \  \___|   Y  \ ____  \  __\|  | \  ___/
 |___  (____  /__|  \___  >___|  /_____\  /__|  |__|  \___  >
     \/     \/          \/     \/       \/                \/

Batchgate orchestrates nightly warehouse batches. It pulls vendor extracts from
S3 into a landing area, hands off to your ETL tool for staging and loading,
reconciles row counts on the way through, and gates the loaded batch behind a
battery of data quality checks. Trigger it from the CLI, a scheduler via
environment variables, or the built-in HTTP server.`,
}

func init() {
	// General setup.
	cobra.EnableCommandSorting = false
	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if twelveFactorMode { // if we are running based on environment variables...
		if lambdaMode { // if we should handle lambda execution...
			lambda.Start(func() error { return execute12FactorMode(twelveFactorActions) })
		} else {
			if err := execute12FactorMode(twelveFactorActions); err != nil {
				// execute12FactorMode prints the error.
				os.Exit(1)
			}
		}
	} else { // else we're using CLI args and flags via Cobra...
		if err := rootCmd.Execute(); err != nil {
			// Execute() prints the error.
			os.Exit(1)
		}
	}
}
