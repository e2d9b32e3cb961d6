package llm

import "context"

// Request is a single-turn chat completion.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
}

// Completer turns a request into the model's answer text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
