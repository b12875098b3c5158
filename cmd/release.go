package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/config"
	"github.com/VoxDroid/relgate/internal/executor"
	"github.com/VoxDroid/relgate/internal/gate"
	"github.com/VoxDroid/relgate/internal/gitstore"
	"github.com/VoxDroid/relgate/internal/ledger"
	"github.com/VoxDroid/relgate/internal/manifest"
	"github.com/VoxDroid/relgate/internal/pipeline"
	"github.com/VoxDroid/relgate/internal/registry"
)

var (
	releaseDryRun bool
	releaseConfig string
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Gate and publish the manifest-declared version",
	Long: "Decide whether the version in the manifest should be published: skip when the " +
		"tag or registry entry already exists, abort when the pipeline fails, otherwise " +
		"tag, upload, and verify exactly once",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		proj, err := manifest.Read(settings.Manifest)
		if err != nil {
			return err
		}

		run := executor.New(false, false)
		tags := gitstore.New(run, "", settings.GitRemote)
		tags.Stderr = os.Stderr
		client := &registry.Client{
			Project:   proj.Name,
			IndexURL:  settings.IndexURL,
			UploadURL: settings.UploadURL,
			Token:     settings.Token,
			DistDir:   settings.DistDir,
		}

		if releaseDryRun {
			return releaseDryRunReport(cmd, tags, client, settings.TagPrefix, proj.Version)
		}

		cfg, err := pipeline.Load(releaseConfig)
		if err != nil {
			return err
		}
		db, err := ledger.Open()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		gk := &gate.Gatekeeper{
			Tags:     tags,
			Registry: client,
			Pipeline: &pipeline.Runner{
				Config: cfg,
				Exec:   run,
				Stdout: os.Stdout,
				Stderr: os.Stderr,
			},
			TagPrefix: settings.TagPrefix,
			Journal:   ledger.NewRepository(db),
		}

		outcome, err := gk.Run(ctx, proj.Version)
		if err != nil {
			return err
		}
		switch outcome {
		case gate.OutcomeSkipped:
			fmt.Printf("%s %s: already released, skipping\n", proj.Name, proj.Version)
		case gate.OutcomeAborted:
			return fmt.Errorf("%s %s: pipeline failed, release aborted", proj.Name, proj.Version)
		case gate.OutcomePublished:
			fmt.Printf("%s %s: published and verified\n", proj.Name, proj.Version)
		}
		return nil
	},
}

// releaseDryRunReport prints the decision the gatekeeper would take without
// running the pipeline or performing side effects. The registry and tag store
// are still read: the decision is meaningless without them.
func releaseDryRunReport(cmd *cobra.Command, tags gate.TagStore, client gate.Registry, prefix, version string) error {
	ctx := cmd.Context()
	if err := gate.ValidateVersion(version); err != nil {
		return err
	}
	tagExists, err := tags.Exists(ctx, prefix+version)
	if err != nil {
		return err
	}
	published, err := client.IsPublished(ctx, version)
	if err != nil {
		return err
	}
	switch gate.Decide(tagExists, published, true) {
	case gate.OutcomeSkipped:
		fmt.Printf("dry-run: %s already released (tag=%v registry=%v), would skip\n", version, tagExists, published)
	default:
		fmt.Printf("dry-run: %s is new, would publish if the pipeline passes\n", version)
	}
	return nil
}

func init() {
	releaseCmd.Flags().BoolVar(&releaseDryRun, "dry-run", false, "print the decision without side effects")
	releaseCmd.Flags().StringVar(&releaseConfig, "config", pipeline.ConfigFile, "pipeline definition file")
	rootCmd.AddCommand(releaseCmd)
}
