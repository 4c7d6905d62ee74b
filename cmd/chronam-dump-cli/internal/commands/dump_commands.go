package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/chronam/ocrdump-service/internal/domain/dumps"

	"github.com/spf13/cobra"
)

// DumpCmd writes the OCR dump of one batch, or of every batch without one
func (h *CommandHandler) DumpCmd(cmd *cobra.Command, _ []string) error {
	batchName, err := cmd.Flags().GetString("batch")
	if err != nil {
		return fmt.Errorf("invalid batch flag: %w", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("invalid all flag: %w", err)
	}
	if (batchName == "") == !all {
		return fmt.Errorf("exactly one of --batch or --all is required")
	}

	if err := h.setup(cmd); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	if !all {
		dump, err := h.ocrDumpService.NewFromBatch(ctx, batchName)
		if err != nil {
			return err
		}
		printDump(cmd, dump)
		return nil
	}

	created, err := h.ocrDumpService.DumpMissing(ctx)
	for _, dump := range created {
		printDump(cmd, dump)
	}
	return err
}

// VerifyCmd recomputes the sha1 and size of a stored dump
func (h *CommandHandler) VerifyCmd(cmd *cobra.Command, args []string) error {
	if err := h.setup(cmd); err != nil {
		return err
	}

	if err := h.ocrDumpService.Verify(commandContext(cmd), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
	return nil
}

// ListDumpsCmd prints the recorded dumps
func (h *CommandHandler) ListDumpsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("invalid limit flag: %w", err)
	}
	sortOrder, err := cmd.Flags().GetString("sort-order")
	if err != nil {
		return fmt.Errorf("invalid sort-order flag: %w", err)
	}

	if err := h.setup(cmd); err != nil {
		return err
	}

	query := dumps.NewOcrDumpQuery()
	query.Limit = limit
	query.SortOrder = sortOrder

	dumpList, err := h.ocrDumpService.List(commandContext(cmd), query)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tNAME\tSIZE\tSHA1\tCREATED")
	for _, dump := range dumpList {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", dump.Sequence, dump.Name, dump.Size, dump.Sha1, dump.DateTimeCreated.Format(time.RFC3339))
	}
	return w.Flush()
}

func printDump(cmd *cobra.Command, dump *dumps.OcrDump) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", dump.Name, dump.Size, dump.Sha1)
}

// InitDumpCommands registers the dump commands
func InitDumpCommands(rootCmd *cobra.Command, handler *CommandHandler) error {
	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Write the OCR dump of a batch",
		RunE:  handler.DumpCmd,
	}
	dumpCmd.Flags().StringP("batch", "", "", "Name of the batch to dump")
	dumpCmd.Flags().BoolP("all", "", false, "Dump every batch that has no OCR dump yet")
	rootCmd.AddCommand(dumpCmd)

	var verifyCmd = &cobra.Command{
		Use:   "verify <dump-name>",
		Short: "Verify the sha1 and size of a stored OCR dump",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.VerifyCmd,
	}
	rootCmd.AddCommand(verifyCmd)

	var listDumpsCmd = &cobra.Command{
		Use:   "list-dumps",
		Short: "List recorded OCR dumps",
		RunE:  handler.ListDumpsCmd,
	}
	listDumpsCmd.Flags().IntP("limit", "", 0, "Maximum number of dumps to list (0 lists all)")
	listDumpsCmd.Flags().StringP("sort-order", "", dumps.SortDesc, "Order by creation time: asc or desc")
	rootCmd.AddCommand(listDumpsCmd)

	return nil
}
