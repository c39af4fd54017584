package cmd

import (
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create objects used by the batch pipeline",
	Long:  `Create objects used by the batch pipeline`,
}

func init() {
	rootCmd.AddCommand(createCmd)
}
