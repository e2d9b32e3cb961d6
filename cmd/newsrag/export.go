package main

import (
	"errors"

	"github.com/spf13/cobra"

	"news_rag/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a compressed snapshot of the index",
	Long: `Writes the persisted index to a single compressed file. The snapshot
can be passed to --index-dir to answer questions from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.Export(args[0]); err != nil {
		return errors.New(app.Status(err))
	}
	cmd.Printf("Exported index to %s\n", args[0])
	return nil
}
