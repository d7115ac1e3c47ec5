package main

import (
	"context"
	"os"
	"os/signal"
	"time"
	"valves/config"
	"valves/metrics"
	"valves/searcher"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Error().Err(err).Msg("valves failed")
		os.Exit(1)
	}
}

// setupLogging points the global logger at stderr with the configured level.
func setupLogging(cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return nil
}

// createSearcher maps the search configuration to searcher options.
func createSearcher(cfg *config.Config, reg prometheus.Registerer) *searcher.Searcher {
	options := []searcher.Option{}

	if cfg.Search.MaxExpansions > 0 {
		options = append(options, searcher.WithMaxExpansions(cfg.Search.MaxExpansions))
	}
	if cfg.Search.Timeout > 0 {
		options = append(options, searcher.WithDuration(cfg.Search.Timeout))
	}
	if cfg.Search.CheckInterval > 0 {
		options = append(options, searcher.WithCheckInterval(cfg.Search.CheckInterval))
	}
	if reg != nil {
		options = append(options, searcher.WithMetrics(metrics.NewPrometheusCollector(reg)))
	} else {
		options = append(options, searcher.WithMetrics(metrics.NewCollector()))
	}

	return searcher.New(options...)
}
