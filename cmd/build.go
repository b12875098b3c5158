package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/pipeline"
)

var (
	buildConfig string
	buildDry    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the package artifacts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner(buildConfig, buildDry)
		if err != nil {
			return err
		}
		if err := r.RunStep(cmd.Context(), "build"); err != nil {
			return err
		}
		fmt.Println("build finished")
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildConfig, "config", pipeline.ConfigFile, "pipeline definition file")
	buildCmd.Flags().BoolVar(&buildDry, "dry-run", false, "print the build command without running it")
	rootCmd.AddCommand(buildCmd)
}
