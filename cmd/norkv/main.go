// Command norkv exercises the storage engine against a simulated NOR-flash
// region: an interactive shell for poking at a store, and a demo that
// mirrors the firmware save/load cycle. The simulated region can be backed
// by a file so its contents survive between runs, standing in for the
// power-cycle persistence of real flash.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/norkv/norkv/pkg/common/log"
	"github.com/norkv/norkv/pkg/config"
	"github.com/norkv/norkv/pkg/flash"
)

var (
	configPath string
	flashFile  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "norkv",
	Short: "fixed-capacity key-value engine with NOR-flash persistence",
	Long: `norkv is a fixed-capacity, deterministic key-value storage engine
for resource-constrained targets, persisted to a raw NOR-flash region.

This binary drives the engine over a simulated flash peripheral.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&flashFile, "flash-file", "", "file backing the simulated flash region")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newShellCommand())
	rootCmd.AddCommand(newDemoCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration for this run.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.NewDefaultConfig(), nil
	}
	return config.LoadConfigFromFile(configPath)
}

// setupLogging applies the verbosity flag to the default logger.
func setupLogging() {
	if verbose {
		log.GetDefaultLogger().SetLevel(log.LevelDebug)
	}
}

// openFlash builds the simulated peripheral. When a backing file is
// configured and present, the region is restored from it. The driver is
// created by the caller so it can share the store's stats collector.
func openFlash(cfg *config.Config) (*flash.MemController, flash.Geometry, error) {
	geo := flash.Geometry{
		PageSize: cfg.FlashPageSize,
		WordSize: cfg.FlashWordSize,
		Capacity: cfg.FlashRegionSize,
	}
	ctrl := flash.NewMemController(geo)
	if flashFile != "" {
		if img, err := os.ReadFile(flashFile); err == nil {
			ctrl.Restore(img)
		} else if !os.IsNotExist(err) {
			return nil, geo, fmt.Errorf("failed to read flash file: %w", err)
		}
	}
	return ctrl, geo, nil
}

// persistFlash writes the simulated region back to its backing file.
func persistFlash(ctrl *flash.MemController) error {
	if flashFile == "" {
		return nil
	}
	if err := os.WriteFile(flashFile, ctrl.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write flash file: %w", err)
	}
	return nil
}
