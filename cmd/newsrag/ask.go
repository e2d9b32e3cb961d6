package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"news_rag/internal/app"
)

var askShowContext bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the persisted index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askShowContext, "context", "c", false, "also print the retrieved context")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	answer, err := a.Ask(cmd.Context(), question)
	if err != nil {
		return errors.New(app.Status(err))
	}
	cmd.Println(answer)

	if askShowContext {
		text, err := a.Context(question)
		if err != nil {
			return errors.New(app.Status(err))
		}
		cmd.Println()
		cmd.Println(text)
	}
	return nil
}
