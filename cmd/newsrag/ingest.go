package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"news_rag/internal/app"
)

var ingestSeed bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [url,...]",
	Short: "Fetch, chunk and index sources",
	Long: `Fetches the given sources (http(s) URLs, local .txt/.md/.pdf files or
file:// URLs), splits them into chunks and adds them to the index in
INDEX_DIR. Arguments may be comma separated.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestSeed, "seed", false, "ingest the default flood coverage")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !ingestSeed {
		return errors.New("nothing to ingest: pass urls or --seed")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if ingestSeed {
		status, err := a.Initialize(cmd.Context(), app.DefaultSources)
		if err != nil {
			return errors.New(app.Status(err))
		}
		cmd.Println(status)
	}

	if len(args) > 0 {
		status, err := a.Add(cmd.Context(), strings.Join(args, ","))
		if err != nil {
			return errors.New(app.Status(err))
		}
		cmd.Println(status)
	}
	return nil
}
