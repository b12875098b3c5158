package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/config"
	"github.com/VoxDroid/relgate/internal/manifest"
	"github.com/VoxDroid/relgate/internal/registry"
)

var publishTestIndex bool

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload built artifacts to the package index",
	Long:  "Upload everything in the dist directory; use --test-index to target the test registry instead",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		proj, err := manifest.Read(settings.Manifest)
		if err != nil {
			return err
		}

		uploadURL := settings.UploadURL
		if publishTestIndex {
			uploadURL = settings.TestUploadURL
		}
		client := &registry.Client{
			Project:   proj.Name,
			IndexURL:  settings.IndexURL,
			UploadURL: uploadURL,
			Token:     settings.Token,
			DistDir:   settings.DistDir,
		}
		if err := client.Publish(cmd.Context(), proj.Version); err != nil {
			return err
		}
		fmt.Printf("uploaded %s %s to %s\n", proj.Name, proj.Version, uploadURL)
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&publishTestIndex, "test-index", false, "upload to the test registry")
	rootCmd.AddCommand(publishCmd)
}
