package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/config"
	"github.com/VoxDroid/relgate/internal/manifest"
	"github.com/VoxDroid/relgate/internal/registry"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [version]",
	Short: "Confirm a version is visible on the package index",
	Long:  "Poll the index with bounded backoff until the version appears; defaults to the manifest version",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		proj, err := manifest.Read(settings.Manifest)
		if err != nil {
			return err
		}
		version := proj.Version
		if len(args) == 1 {
			version = args[0]
		}

		client := &registry.Client{
			Project:  proj.Name,
			IndexURL: settings.IndexURL,
		}
		if err := client.VerifyPublished(cmd.Context(), version); err != nil {
			return err
		}
		fmt.Printf("%s %s is visible on the index\n", proj.Name, version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
