package main

import (
	"context"
	"time"

	"frame-sketch/internal/engine/model"
	"frame-sketch/internal/sheets/solver"

	"github.com/spf13/cobra"
)

var (
	solverURL  string
	unitSystem string
)

var modelCmd = &cobra.Command{
	Use:   "model [file]",
	Short: "Print the analysis model extracted from a sketch",
	Args:  cobra.ExactArgs(1),
	RunE:  runModel,
}

var solveCmd = &cobra.Command{
	Use:   "solve [file]",
	Short: "Extract the model and send it to the solver",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solverURL, "solver-url", "http://localhost:5000", "solver service base URL")
	solveCmd.Flags().StringVar(&unitSystem, "units", "metric", "unit system sent to the solver")

	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(solveCmd)
}

func runModel(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, model.Build(s))
}

func runSolve(cmd *cobra.Command, args []string) error {
	s, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	m := model.Build(s)
	res, err := solver.New(solverURL, unitSystem).Solve(ctx, m)
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]any{"model": m, "result": res})
}
