// Package gemini implements the llm.Generator seam on top of the Gemini API,
// rotating between several API keys through the rate-limited key pool.
package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/memewire/memewire/internal/keypool"
	"github.com/memewire/memewire/internal/llm"
)

// Prompts are capped to keep requests inside model context comfortably.
const maxPromptRunes = 12000

// Client holds one genai client per credential; the pool decides which one
// each call goes out on.
type Client struct {
	clients []*genai.Client
	pool    *keypool.Pool
	model   string
}

func NewClient(ctx context.Context, apiKeys []string, maxCallsPerKeyPerMinute int, model string) (*Client, error) {
	pool, err := keypool.New(apiKeys, maxCallsPerKeyPerMinute)
	if err != nil {
		return nil, err
	}

	clients := make([]*genai.Client, 0, len(apiKeys))
	for _, key := range apiKeys {
		c, err := genai.NewClient(ctx, option.WithAPIKey(key))
		if err != nil {
			for _, opened := range clients {
				opened.Close()
			}
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		clients = append(clients, c)
	}

	log.Printf("Gemini ready with %d API keys", len(clients))
	return &Client{clients: clients, pool: pool, model: model}, nil
}

func (c *Client) Close() {
	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = sanitizePrompt(prompt)

	index := c.pool.Acquire()
	log.Printf("Using API key #%d", index+1)

	model := c.clients[index].GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrCallFailed, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no response from Gemini", llm.ErrCallFailed)
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return strings.TrimSpace(text), nil
}

func sanitizePrompt(prompt string) string {
	prompt = strings.ReplaceAll(prompt, "\r", "")
	if utf8.RuneCountInString(prompt) > maxPromptRunes {
		runes := []rune(prompt)
		prompt = string(runes[:maxPromptRunes]) + "\n[TRUNCATED]"
	}
	return strings.TrimSpace(prompt)
}
