package main

import (
	"frame-sketch/internal/engine/wire"

	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [file]",
	Short: "Rewrite legacy elements in the canonical points format",
	Long:  "Legacy flat fields (x, y, x2, y2, length, width, normal) are converted to explicit point lists. Unknown element types are dropped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, wire.Encode(s.Elements()))
}
