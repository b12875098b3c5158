package cmd

import (
	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/cmd/tui/ui"
	"github.com/VoxDroid/relgate/internal/ledger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse past release decisions interactively",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := ledger.Open()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entries, err := ledger.NewRepository(db).List(0)
		if err != nil {
			return err
		}
		p := ui.NewProgram(entries)
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
