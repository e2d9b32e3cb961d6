package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	promptColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	answerColor = color.New(color.FgCyan, color.Bold).SprintFunc()
	statusColor = color.New(color.FgYellow).SprintFunc()
	errorColor  = color.New(color.FgRed).SprintFunc()
)

const help = `Commands:
  :add url1, url2     ingest comma separated urls or local files
  :context [question] show the context retrieved for a question (default: the last one)
  :quit               exit
Anything else is asked as a question.`

// Run reads commands and questions from in, one per line, until EOF, :quit
// or ctx is cancelled.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	a.log.Info("Application started")
	fmt.Fprintln(a.out, promptColor("📰 News RAG"))
	fmt.Fprintln(a.out, help)

	scanner := bufio.NewScanner(in)
	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Shutting down application")
			return nil
		default:
		}

		fmt.Fprint(a.out, promptColor("> "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("stdin error: %w", err)
			}
			a.log.Debug("stdin closed")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !a.handle(ctx, line) {
			return nil
		}
	}
}

// handle executes one input line and reports whether the loop should go on.
func (a *App) handle(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":quit", ":q", ":exit":
		return false
	case ":help":
		fmt.Fprintln(a.out, help)
	case ":add":
		a.print(a.Add(ctx, arg))
	case ":context":
		a.print(a.Context(arg))
	default:
		answer, err := a.Ask(ctx, line)
		if err != nil {
			a.print("", err)
			break
		}
		fmt.Fprintln(a.out, answerColor(answer))
	}
	return true
}

func (a *App) print(status string, err error) {
	if err != nil {
		a.log.Debugw("command failed", "error", err)
		fmt.Fprintln(a.out, errorColor(Status(err)))
		return
	}
	fmt.Fprintln(a.out, statusColor(status))
}
