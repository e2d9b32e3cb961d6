package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// EnsureOllamaModels checks that Ollama answers at baseURL and pulls any of
// models it does not have yet.
func EnsureOllamaModels(ctx context.Context, baseURL string, log *zap.SugaredLogger, models ...string) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Minute)

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := client.R().SetContext(ctx).SetResult(&tags).Get("/api/tags")
	if err != nil {
		return fmt.Errorf("ollama is not reachable at %s: %w", baseURL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("ollama at %s returned status %d", baseURL, resp.StatusCode())
	}

	have := make(map[string]bool, len(tags.Models))
	for _, m := range tags.Models {
		have[m.Name] = true
		have[strings.TrimSuffix(m.Name, ":latest")] = true
	}

	for _, model := range models {
		if have[model] {
			log.Debugf("Model %s is available", model)
			continue
		}

		log.Infof("⬇️  Model %s not found, pulling...", model)
		resp, err := client.R().
			SetContext(ctx).
			SetBody(map[string]any{"name": model, "stream": false}).
			Post("/api/pull")
		if err != nil {
			return fmt.Errorf("failed to pull model %s: %w", model, err)
		}
		if resp.IsError() {
			return fmt.Errorf("failed to pull model %s: status %d", model, resp.StatusCode())
		}
		log.Infof("Model %s pulled successfully", model)
	}
	return nil
}
