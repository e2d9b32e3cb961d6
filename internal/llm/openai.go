package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"news_rag/internal/errs"
)

// OpenAIClient completes requests against the OpenAI chat API or any
// compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	log    *zap.SugaredLogger
}

// NewOpenAIClient builds a client for apiKey. An empty baseURL targets
// api.openai.com, which needs a key; compatible endpoints may run without one.
func NewOpenAIClient(apiKey, baseURL string, log *zap.SugaredLogger) (*OpenAIClient, error) {
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", errs.ErrConfiguration)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), log: log}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	c.log.Debugw("chat completion", "model", req.Model, "temperature", req.Temperature, "prompt_bytes", len(req.Prompt))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: temperature(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion request to %s failed: %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", req.Model)
	}
	return resp.Choices[0].Message.Content, nil
}

// temperature keeps an explicit zero on the wire; the request struct drops
// zero values, which the API reads as its default of 1.
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
