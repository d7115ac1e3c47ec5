package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"valves/config"
	"valves/engine"
	"valves/report"
	"valves/scan"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

// --- Global Command Variables ---
var (
	cfg *config.Config

	configPath string
	logLevel   string

	solveInput         string
	solveStart         string
	solveTime          int
	solveMaxExpansions int
	solveTimeout       time.Duration
	solveRecordDir     string
	solveMetricsFile   string

	generateNodes   int
	generateSeed    uint64
	generateMaxRate uint64
	generateChords  int

	rootCmd = &cobra.Command{
		Use:   "valves",
		Short: "Find the action sequence that releases the most pressure",
		Long: `valves reads a scan of valves and tunnels and searches every sequence
of moves and valve openings within the time budget for the best total flow.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	solveCmd = &cobra.Command{
		Use:   "solve",
		Short: "Search the best path through a scan (stdin by default)",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Write a random scan to stdout",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	solveCmd.Flags().StringVarP(&solveInput, "input", "i", "", "Scan file, stdin when empty")
	solveCmd.Flags().StringVarP(&solveStart, "start", "s", config.DefaultStart, "Starting valve")
	solveCmd.Flags().IntVarP(&solveTime, "time", "t", config.DefaultTime, "Time budget in steps")
	solveCmd.Flags().IntVar(&solveMaxExpansions, "max-expansions", 0, "Abort after this many search calls, 0 for no limit")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "Abort the search after this duration, e.g. 30s")
	solveCmd.Flags().StringVar(&solveRecordDir, "record-dir", "", "Directory for steps.csv and search.json records")
	solveCmd.Flags().StringVar(&solveMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	generateCmd.Flags().IntVar(&generateNodes, "nodes", 10, "Number of valves")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 1, "Random seed")
	generateCmd.Flags().Uint64Var(&generateMaxRate, "max-rate", 25, "Highest flow rate")
	generateCmd.Flags().IntVar(&generateChords, "chords", 1, "Extra random tunnels per valve")

	rootCmd.AddCommand(solveCmd, generateCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return setupLogging(cfg)
}

// applySolveFlags overrides file values with flags the user actually set.
func applySolveFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Search.Start = solveStart
	}
	if flags.Changed("time") {
		cfg.Search.Time = solveTime
	}
	if flags.Changed("max-expansions") {
		cfg.Search.MaxExpansions = solveMaxExpansions
	}
	if flags.Changed("timeout") {
		cfg.Search.Timeout = solveTimeout
	}
	if flags.Changed("record-dir") {
		cfg.Output.RecordDir = solveRecordDir
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = solveMetricsFile
	}
	return cfg.Validate()
}

func runSolve(cmd *cobra.Command, args []string) error {
	if err := applySolveFlags(cmd); err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	inputName := "stdin"
	if solveInput != "" {
		f, err := os.Open(solveInput)
		if err != nil {
			return fmt.Errorf("failed to open scan: %w", err)
		}
		defer f.Close()
		in, inputName = f, solveInput
	}

	var (
		registry   *prometheus.Registry
		registerer prometheus.Registerer
	)
	if cfg.Output.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		registerer = registry
	}

	e := engine.New(createSearcher(cfg, registerer))
	result, err := e.Run(cmd.Context(), in, cfg.Search.Start, cfg.Search.Time)
	// Export even when the search aborted
	if registry != nil {
		if werr := writeMetrics(cfg.Output.MetricsFile, registry); werr != nil {
			return errors.Join(err, werr)
		}
	}
	if err != nil {
		return err
	}

	if err := report.WriteText(cmd.OutOrStdout(), result.Graph, result.Path, result.Score); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}

	if cfg.Output.RecordDir != "" {
		writer, err := report.NewWriter(cfg.Output.RecordDir)
		if err != nil {
			return fmt.Errorf("failed to create record writer: %w", err)
		}
		if err := writer.WriteSteps(result.Graph, result.Path, result.Budget); err != nil {
			return err
		}
		run := report.NewRun(inputName, cfg.Search.Start, result.Path, result.Score, result.Metric)
		if err := writer.WriteRun(run); err != nil {
			return err
		}
		log.Info().Msgf("stored run records in %s", writer.Dir())
	}

	return nil
}

func writeMetrics(path string, registry *prometheus.Registry) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	log.Info().Msgf("stored metrics in %s", path)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if generateNodes <= 0 {
		return fmt.Errorf("--nodes must be positive, got %d", generateNodes)
	}

	rng := rand.New(rand.NewSource(generateSeed))
	records := scan.Generate(rng, scan.GenerateOptions{
		Nodes:   generateNodes,
		MaxRate: generateMaxRate,
		Chords:  generateChords,
	})
	log.Debug().Msgf("generated %d valves with seed %d", len(records), generateSeed)

	return scan.Format(cmd.OutOrStdout(), records)
}
