package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relgate",
	Short: "relgate is a release gatekeeper for Python packages",
	Long:  "relgate runs the quality pipeline and publishes a manifest-declared version at most once",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("relgate: run 'relgate --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
