// Package main is the entry point for the chronam-dump-cli application.
// It registers the fixture, dump and batch sub-commands on the root command
// and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chronam/ocrdump-service/cmd/chronam-dump-cli/internal/commands"
	"github.com/chronam/ocrdump-service/internal/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "chronam-dump-cli",
		Short: "OCR dump maintenance CLI tool",
		Long: `chronam-dump-cli maintains the OCR dumps of digitized newspaper batches.
It loads batch fixtures, writes <batch>.tar.bz2 dumps holding the OCR text and
OCR XML of every page, verifies stored dumps and deletes batches together with
their dumps.

Configuration is read from the file given by --config or CONFIG_PATH.
OCR_DUMP_STORAGE and DATABASE_DSN override the file settings.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", os.Getenv(config.EnvConfigPath), "Path to the YAML configuration file")

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	handler := commands.NewCommandHandler()

	if err := commands.InitFixtureCommands(rootCmd, handler); err != nil {
		return fmt.Errorf("failed to initialize fixture commands: %w", err)
	}

	if err := commands.InitDumpCommands(rootCmd, handler); err != nil {
		return fmt.Errorf("failed to initialize dump commands: %w", err)
	}

	if err := commands.InitBatchCommands(rootCmd, handler); err != nil {
		return fmt.Errorf("failed to initialize batch commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
