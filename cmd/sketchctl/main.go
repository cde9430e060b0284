package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/engine/wire"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sketchctl",
	Short: "Inspect serialized frame sketches",
	Long: `sketchctl reads a serialized element list (a JSON array, as stored in a sheet)
and extracts the analysis model, upgrades legacy elements to the canonical
format or prints the screen projection of every point.`,
	Version:      "1.0.0",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadScene читает элементы из файла ("-" — stdin).
func loadScene(cmd *cobra.Command, filename string) (*scene.Scene, error) {
	var (
		data []byte
		err  error
	)
	if filename == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	elements, err := wire.Decode(data)
	if err != nil {
		return nil, err
	}
	s := scene.New()
	s.Replace(elements)
	return s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
