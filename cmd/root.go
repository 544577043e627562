package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/subodh556/AI-Teacher-sub000/internal/config"
	"github.com/subodh556/AI-Teacher-sub000/internal/logging"
	"github.com/subodh556/AI-Teacher-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "aiteacher",
	Short:        "Adaptive assessment engine",
	Long:         "aiteacher runs adaptive assessments in the terminal or over HTTP and tracks each learner's knowledge gaps.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./aiteacher.yaml or $XDG_CONFIG_HOME/aiteacher/aiteacher.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AITEACHER_STORE_PATH)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what every command that touches the database needs.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store

	closeLog func() error
}

func (e *env) Close() {
	e.store.Close()
	e.log.Sync()
	e.closeLog()
}

// loadConfig reads the config named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	return cfg, nil
}

// openEnv loads configuration, builds the logger and opens the store.
// quiet keeps log lines off the terminal for commands that own the screen.
func openEnv(cmd *cobra.Command, quiet bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if quiet {
		cfg.Log.Quiet = true
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	dsn, err := cfg.Store.DSN()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	picker, err := cfg.Engine.Picker()
	if err != nil {
		closeLog()
		return nil, err
	}
	st, err := store.Open(dsn, store.WithPicker(picker))
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", zap.String("path", dsn))

	return &env{cfg: cfg, log: log, store: st, closeLog: closeLog}, nil
}
