package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/executor"
	"github.com/VoxDroid/relgate/internal/pipeline"
)

var (
	checkConfig string
	checkDir    string
	checkDry    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run quality gates (format, types, deadcode, test, coverage)",
	Long:  "Run one quality gate or the full pipeline; each gate is a direct invocation of the configured tool",
}

func newRunner(cfgPath string, dry bool) (*pipeline.Runner, error) {
	cfg, err := pipeline.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{
		Config: cfg,
		Exec:   executor.New(dry, false),
		Dir:    checkDir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

var checkAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the full quality pipeline",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner(checkConfig, checkDry)
		if err != nil {
			return err
		}
		passed, err := r.Run(cmd.Context())
		if err != nil {
			return err
		}
		if !passed {
			return fmt.Errorf("pipeline failed")
		}
		fmt.Println("pipeline passed")
		return nil
	},
}

func stepCommand(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newRunner(checkConfig, checkDry)
			if err != nil {
				return err
			}
			if err := r.RunStep(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Printf("%s passed\n", name)
			return nil
		},
	}
}

func init() {
	checkCmd.PersistentFlags().StringVar(&checkConfig, "config", pipeline.ConfigFile, "pipeline definition file")
	checkCmd.PersistentFlags().StringVar(&checkDir, "dir", "", "project directory (default: current)")
	checkCmd.PersistentFlags().BoolVar(&checkDry, "dry-run", false, "print commands without running them")

	checkCmd.AddCommand(checkAllCmd)
	checkCmd.AddCommand(stepCommand("format", "Check formatting"))
	checkCmd.AddCommand(stepCommand("types", "Run the type checker"))
	checkCmd.AddCommand(stepCommand("deadcode", "Run the dead-code checker"))
	checkCmd.AddCommand(stepCommand("test", "Run the test suite"))
	checkCmd.AddCommand(stepCommand("coverage", "Run the test suite with coverage"))
	rootCmd.AddCommand(checkCmd)
}
