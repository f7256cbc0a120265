// Package cli provides the command-line interface for neuropredictor.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/medinalabs/neuropredictor/internal/client"
	"github.com/medinalabs/neuropredictor/internal/config"
	"github.com/medinalabs/neuropredictor/internal/llm"
	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/tui"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose    bool
	serverURL  string
	configPath string

	// Global config and logger, set in PersistentPreRunE
	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
	collector   = metrics.NewCollector()
)

// rootCmd runs the terminal UI when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "neuropredictor",
	Short: "Watch a language model guess your next word",
	Long: `Neuropredictor asks a language model for the five most likely next words
of a phrase and shows them as particles orbiting the text. Click a particle
to read the model's explanation of its guess.

Without a subcommand it starts the interactive terminal UI.

Examples:
  neuropredictor
  neuropredictor --server http://localhost:8585
  neuropredictor predict "El sol brilla en el"`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFile(configPath)
		} else {
			cfg = config.Load()
			err = cfg.Validate()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		// The terminal UI owns the screen, so it only logs to the file.
		var console io.Writer = os.Stderr
		if cmd == rootCmd {
			console = io.Discard
		}
		logger, closeLogger = config.SetupLogger(cfg.LogFile, level, console)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
			closeLogger = nil
		}
	},
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source, err := newSource(ctx)
	if err != nil {
		return err
	}

	logger.Info("starting terminal UI", "provider", cfg.LLMProvider, "server", serverURL)
	return tui.Run(ctx, tui.Options{
		Source:        source,
		FrameInterval: cfg.FrameInterval(),
		Metrics:       collector,
		Logger:        logger,
	})
}

// newSource picks the prediction source: the server when --server is set,
// otherwise a language model built from the config.
var newSource = func(ctx context.Context) (predict.Source, error) {
	if serverURL != "" {
		return client.New(serverURL), nil
	}

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init model: %w", err)
	}
	model.WithMetrics(collector)

	return predict.NewLLMSource(model,
		predict.WithTimeout(cfg.PredictTimeout),
		predict.WithMetrics(collector),
		predict.WithLogger(logger),
	), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "use a neuropredictor server instead of calling the model directly")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")

	// Add subcommands
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
