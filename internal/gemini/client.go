package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
	"holoframe-backend/internal/apierr"
)

type Client struct {
	apiKey  string
	model   string
	baseURL string

	once   sync.Once
	client *genai.Client
	err    error
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Client{apiKey: apiKey, model: model}
}

// WithBaseURL points the client at a different Gemini API host.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

func (c *Client) Model() string { return c.model }

func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	if c.apiKey == "" {
		return nil, apierr.Configuration("GEMINI_API_KEY is not configured")
	}
	c.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:     c.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: &http.Client{Timeout: 60 * time.Second},
		}
		if c.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
		}
		c.client, c.err = genai.NewClient(ctx, cfg)
	})
	if c.err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", c.err)
	}
	return c.client, nil
}

// Generate returns the text of the first candidate for prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apierr.Validation("prompt is required")
	}

	client, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apierr.New(apierr.KindProvider, "gemini generateContent failed", err)
	}
	return resp.Text(), nil
}
