package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/relgate/internal/ledger"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past gatekeeper decisions",
	RunE: func(_ *cobra.Command, _ []string) error {
		db, err := ledger.Open()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		entries, err := ledger.NewRepository(db).List(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no release decisions recorded yet")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%s  %-10s %s", e.CreatedAt, e.Outcome, e.Version)
			if e.Detail != "" {
				line += "  (" + e.Detail + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
