package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/trajopt/internal/config"
	"github.com/san-kum/trajopt/internal/models"
	"github.com/san-kum/trajopt/internal/store"
	"github.com/san-kum/trajopt/internal/transcribe"
	"github.com/san-kum/trajopt/internal/viz"
)

var (
	scheme     string
	mesh       int
	solver     string
	configFile string
	outPath    string
	showPlot   bool
	randomSeed int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trajopt",
		Short: "trajectory optimization by direct collocation",
	}

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "transcribe and solve a problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&scheme, "scheme", config.DefaultScheme, "transcription scheme")
	solveCmd.Flags().IntVar(&mesh, "mesh", config.DefaultMeshIntervals, "mesh intervals")
	solveCmd.Flags().StringVar(&solver, "solver", config.DefaultSolver, "nlp backend")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&outPath, "out", "", "export solution json to path")
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "plot trajectory channels")
	solveCmd.Flags().Int64Var(&randomSeed, "random-guess", 0, "seed a random initial guess (0 = bounds midpoint)")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list available problems",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range models.Names() {
				fmt.Println(name)
			}
		},
	}

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list transcription schemes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range transcribe.SchemeNames() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(solveCmd, problemsCmd, schemesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Explicit flags win over the config file.
	if cmd.Flags().Changed("scheme") {
		cfg.Scheme = scheme
	}
	if cmd.Flags().Changed("mesh") {
		cfg.MeshIntervals = mesh
	}
	if cmd.Flags().Changed("solver") {
		cfg.Solver = solver
	}

	problem, err := models.Get(args[0])
	if err != nil {
		return err
	}

	tr, err := transcribe.New(problem, cfg)
	if err != nil {
		return err
	}

	var guess *transcribe.Iterate
	if randomSeed != 0 {
		guess = tr.RandomIterateWithinBounds(randomSeed)
	}

	sol, err := tr.Solve(guess)
	if err != nil {
		return err
	}

	fmt.Print(viz.Summary(problem.Name, tr.SchemeName(), cfg.MeshIntervals, sol.Stats))

	if showPlot {
		states := sol.Vars[transcribe.KindStates]
		for r, s := range problem.States {
			row := make([]float64, len(sol.Times))
			for c := range row {
				row[c] = states.At(r, c)
			}
			fmt.Print(viz.Plot(s.Name, row))
		}
		if len(problem.Controls) > 0 {
			controls := sol.Vars[transcribe.KindControls]
			for r, c := range problem.Controls {
				row := make([]float64, len(sol.Times))
				for col := range row {
					row[col] = controls.At(r, col)
				}
				fmt.Print(viz.Plot(c.Name, row))
			}
		}
	}

	if outPath != "" {
		if err := store.ExportJSON(outPath, problem, tr.SchemeName(), sol); err != nil {
			return err
		}
		fmt.Printf("exported %s\n", outPath)
	}
	return nil
}
