package main

import (
	"os"

	"github.com/spf13/cobra"

	"news_rag/internal/app"
)

var chatSeed bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question answering console",
	Long: `Starts an interactive console. Lines starting with ":" are commands
(:add, :context, :quit); every other line is asked as a question.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatSeed, "seed", false, "ingest the default flood coverage before starting")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if chatSeed {
		status, err := a.Initialize(cmd.Context(), app.DefaultSources)
		if err != nil {
			cmd.PrintErrln(app.Status(err))
			return err
		}
		cmd.Println(status)
	}

	return a.Run(cmd.Context(), os.Stdin)
}
