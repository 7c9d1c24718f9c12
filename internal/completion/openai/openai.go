package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Client is an OpenAI-compatible chat completions client.
type Client struct {
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
	maxTokens    int
	temperature  float64
	client       *http.Client
	maxRetries   int
	sleep        func(context.Context, time.Duration) error
}

// Config configures the chat completions client.
type Config struct {
	BaseURL      string
	APIKeyEnv    string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	MaxRetries   int
}

// NewClient creates a new completions client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       key,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		client:       &http.Client{Timeout: t},
		maxRetries:   cfg.MaxRetries,
		sleep:        sleepCtx,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends prompt as a user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	msgs := make([]message, 0, 2)
	if c.systemPrompt != "" {
		msgs = append(msgs, message{Role: "system", Content: c.systemPrompt})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})
	data, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    msgs,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if attempt < c.maxRetries {
				if err := c.sleep(ctx, retryDelay(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			if attempt < c.maxRetries {
				d := retryDelay(attempt)
				// Retry-After is honoured up to maxRetryDelay
				if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs >= 0 {
					d = min(time.Duration(secs)*time.Second, maxRetryDelay)
				}
				if err := c.sleep(ctx, d); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("chat completion failed: %s", resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}
		var out chatResponse
		decodeErr := json.Unmarshal(payload, &out)
		if resp.StatusCode >= 300 {
			if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
				return "", fmt.Errorf("chat completion failed: %s: %s", resp.Status, out.Error.Message)
			}
			return "", fmt.Errorf("chat completion failed: %s", resp.Status)
		}
		if decodeErr != nil {
			return "", fmt.Errorf("decoding chat completion: %w", decodeErr)
		}
		if len(out.Choices) == 0 {
			return "", errors.New("no completion returned")
		}
		return strings.TrimSpace(out.Choices[0].Message.Content), nil
	}
	return "", errors.New("no completion returned")
}

const maxRetryDelay = 5 * time.Second

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return maxRetryDelay
	}
	// exponential backoff from 200ms
	return min(200*time.Millisecond<<attempt, maxRetryDelay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
