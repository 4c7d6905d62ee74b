package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteBatchCmd deletes a batch together with its OCR dump row and file
func (h *CommandHandler) DeleteBatchCmd(cmd *cobra.Command, args []string) error {
	if err := h.setup(cmd); err != nil {
		return err
	}

	if err := h.batchService.DeleteByName(commandContext(cmd), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

// ListBatchesCmd prints every batch with its page count
func (h *CommandHandler) ListBatchesCmd(cmd *cobra.Command, _ []string) error {
	if err := h.setup(cmd); err != nil {
		return err
	}

	batchList, err := h.batchService.List(commandContext(cmd))
	if err != nil {
		return err
	}
	for _, batch := range batchList {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d pages\n", batch.Name, batch.PageCount)
	}
	return nil
}

// InitBatchCommands registers the batch commands
func InitBatchCommands(rootCmd *cobra.Command, handler *CommandHandler) error {
	var deleteBatchCmd = &cobra.Command{
		Use:   "delete-batch <name>",
		Short: "Delete a batch and its OCR dump",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.DeleteBatchCmd,
	}
	rootCmd.AddCommand(deleteBatchCmd)

	var listBatchesCmd = &cobra.Command{
		Use:   "list-batches",
		Short: "List batches with their page counts",
		RunE:  handler.ListBatchesCmd,
	}
	rootCmd.AddCommand(listBatchesCmd)

	return nil
}
