package commands

import (
	"fmt"

	"github.com/chronam/ocrdump-service/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
)

// LoadFixturesCmd loads Django style JSON fixtures of titles, batches, issues, pages and OCR text
func (h *CommandHandler) LoadFixturesCmd(cmd *cobra.Command, args []string) error {
	if err := h.setup(cmd); err != nil {
		return err
	}

	batchRoot, err := cmd.Flags().GetString("batch-root")
	if err != nil {
		return fmt.Errorf("invalid batch-root flag: %w", err)
	}

	loader, err := persistence.NewFixtureLoader(h.db, h.logger, batchRoot)
	if err != nil {
		return err
	}

	for _, path := range args {
		file, err := h.fs.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open fixture %s: %w", path, err)
		}

		stats, err := loader.Load(commandContext(cmd), file)
		_ = file.Close()
		if err != nil {
			return fmt.Errorf("failed to load fixture %s: %w", path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d titles, %d batches, %d issues, %d pages, %d ocr\n", path,
			stats[persistence.FixtureTitle], stats[persistence.FixtureBatch], stats[persistence.FixtureIssue],
			stats[persistence.FixturePage], stats[persistence.FixtureOCR])
	}
	return nil
}

// InitFixtureCommands registers the fixture commands
func InitFixtureCommands(rootCmd *cobra.Command, handler *CommandHandler) error {
	var loadFixturesCmd = &cobra.Command{
		Use:   "load-fixtures <file>...",
		Short: "Load batch fixtures into the database",
		Args:  cobra.MinimumNArgs(1),
		RunE:  handler.LoadFixturesCmd,
	}
	loadFixturesCmd.Flags().StringP("batch-root", "", ".", "Directory holding batches without a storage_path")
	rootCmd.AddCommand(loadFixturesCmd)

	return nil
}
