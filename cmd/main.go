package main

import (
	"fmt"
	"os"

	"sigscope/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli carries the state shared by one command tree: persistent flags and what
// PersistentPreRunE builds from them
type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "sigscope",
		Short: "Derive normalized signatures from JavaScript function and class source",
		Long: `sigscope reads the source text of a JavaScript or TypeScript function or class
and prints its signature as "function name(params)" or "class Name(params)".

Comments are stripped, whitespace is collapsed and explicit overrides win over parsing.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to app configuration file")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newResolveCmd(c))
	rootCmd.AddCommand(newServeCmd(c))
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadConfig(c.configPath)
		if err != nil {
			return err
		}
	} else {
		c.cfg = config.Default()
	}

	c.logger, err = newLogger(c.cfg.App.LogLevel, c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	cfgZap := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfgZap.Level = zap.NewAtomicLevelAt(lvl)
	// signatures go to stdout, logs stay out of the way
	cfgZap.OutputPaths = []string{"stderr"}
	return cfgZap.Build()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
