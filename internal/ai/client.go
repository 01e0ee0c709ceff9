package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/chyiyaqing/ideapack/internal/config"
)

// Client talks to an Ollama server through its OpenAI-compatible API.
type Client struct {
	model string
	api   openai.Client
}

func NewClient(cfg config.OllamaConfig) *Client {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.Address, "/") + "/v1/"),
		// Ollama ignores the key, but the SDK insists on one.
		option.WithAPIKey("ollama"),
		option.WithRequestTimeout(120 * time.Second),
		option.WithMaxRetries(1),
	}
	if cfg.Username != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		opts = append(opts, option.WithHeader("Authorization", "Basic "+cred))
	}
	return &Client{
		model: cfg.Model,
		api:   openai.NewClient(opts...),
	}
}

// ChatCompletion sends a prompt and returns the assistant's response text
// with code fences and smart quotes cleaned up.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	cleaned := stripCodeFence(resp.Choices[0].Message.Content)
	cleaned = sanitizeJSON(cleaned)
	return cleaned, nil
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// sanitizeJSON replaces Unicode smart quotes that LLMs sometimes produce
// in JSON output with their ASCII equivalents.
func sanitizeJSON(s string) string {
	s = strings.ReplaceAll(s, "“", "\"")
	s = strings.ReplaceAll(s, "”", "\"")
	s = strings.ReplaceAll(s, "‘", "'")
	s = strings.ReplaceAll(s, "’", "'")
	return s
}

// stripCodeFence removes markdown code fences from LLM responses.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}
