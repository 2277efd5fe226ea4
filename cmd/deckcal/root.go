package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/deckcal"
	"github.com/aretw0/deckcal/internal/config"
	"github.com/aretw0/deckcal/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deckcal",
	Short: "deckcal places hardware modules on a deck and runs pipette calibration sessions",
	Long: `deckcal resolves module names, computes module geometry from the bundled
definitions and drives pipette offset calibration sessions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the deckcal config file")
	rootCmd.PersistentFlags().String("dir", "", "Directory for file-backed sessions (overrides the config)")
}

// loadConfig reads --config and applies --dir. A relative session
// directory in the file is taken relative to the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		cfg.Store.Backend = config.BackendFile
		cfg.Store.Dir = dir
	} else if cfg.Store.Backend == config.BackendFile && !filepath.IsAbs(cfg.Store.Dir) {
		cfg.Store.Dir = filepath.Join(filepath.Dir(path), cfg.Store.Dir)
	}
	return cfg, nil
}

// openDeck loads the configuration and opens a Deck with a logger at the
// configured level. Extra options are applied last.
func openDeck(cmd *cobra.Command, opts ...deckcal.Option) (*deckcal.Deck, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	opts = append([]deckcal.Option{deckcal.WithLogger(logging.New(level))}, opts...)
	deck, err := deckcal.Open(cfg, opts...)
	if err != nil {
		return nil, cfg, err
	}
	return deck, cfg, nil
}

// mustOpenDeck is openDeck for Run handlers.
func mustOpenDeck(cmd *cobra.Command, opts ...deckcal.Option) (*deckcal.Deck, config.Config) {
	deck, cfg, err := openDeck(cmd, opts...)
	if err != nil {
		fmt.Printf("Error initializing deckcal: %v\n", err)
		os.Exit(1)
	}
	return deck, cfg
}
