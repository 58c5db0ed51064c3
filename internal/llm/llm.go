// Package llm abstracts the text-generation endpoint behind a single
// Generator seam so the pipeline can run against Gemini, a local Ollama
// server or OpenAI interchangeably.
package llm

import (
	"context"
	"errors"
)

// ErrCallFailed marks transient transport failures: timeouts, non-2xx
// responses, empty completions. Callers recover via their retry policy.
var ErrCallFailed = errors.New("llm call failed")

// Generator produces free-form text for a prompt. Implementations own their
// credential handling and rate limiting.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
