package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information for Batchgate",
	Long:  `Show version information for Batchgate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf(`Batchgate
  Version:	%v
  Build date:	%v
  OS/Arch:	%v
`, version, buildDate, osArch)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
