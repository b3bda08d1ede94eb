package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"holoframe-backend/internal/apierr"
)

const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"

	DefaultPollInterval = 2 * time.Second
	// VideoMaxPolls bounds the video branch to roughly four minutes at the default interval.
	VideoMaxPolls = 120
)

type Client struct {
	baseURL      string
	token        string
	httpClient   *http.Client
	pollInterval time.Duration
}

type Option func(*Client)

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`

	raw []byte
}

func (p *Prediction) Pending() bool {
	return p.Status == StatusStarting || p.Status == StatusProcessing
}

// OutputURL accepts either a bare string output or an array whose first
// element is a string.
func (p *Prediction) OutputURL() (string, error) {
	if len(p.Output) == 0 || string(p.Output) == "null" {
		return "", apierr.Provider("unexpected output format: empty output", string(p.raw))
	}

	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil && single != "" {
		return single, nil
	}

	var many []string
	if err := json.Unmarshal(p.Output, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0], nil
	}

	return "", apierr.Provider("unexpected output format", string(p.Output))
}

func (p *Prediction) failure(what string) error {
	detail := string(p.Error)
	if detail == "" || detail == "null" {
		detail = string(p.raw)
	}
	return apierr.Provider(fmt.Sprintf("%s %s (status %s)", what, p.ID, p.Status), detail)
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// CreatePrediction starts a job against a specific model version.
func (c *Client) CreatePrediction(ctx context.Context, version string, input map[string]interface{}) (*Prediction, error) {
	body := map[string]interface{}{
		"version": version,
		"input":   input,
	}
	return c.do(ctx, http.MethodPost, c.baseURL+"/predictions", body, false, "failed to create prediction")
}

// CreateModelPrediction starts a job against the latest version of an
// official model ("owner/name").
func (c *Client) CreateModelPrediction(ctx context.Context, model string, input map[string]interface{}, preferWait bool) (*Prediction, error) {
	body := map[string]interface{}{
		"input": input,
	}
	url := c.baseURL + "/models/" + strings.Trim(model, "/") + "/predictions"
	return c.do(ctx, http.MethodPost, url, body, preferWait, "failed to create model prediction")
}

func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil, false, "failed to get prediction")
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}, preferWait bool, what string) (*Prediction, error) {
	if !c.Configured() {
		return nil, apierr.Configuration("REPLICATE_API_TOKEN is not configured")
	}

	var reader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if preferWait {
		req.Header.Set("Prefer", "wait")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.New(apierr.KindProvider, what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.New(apierr.KindProvider, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierr.Provider(fmt.Sprintf("%s: status %d", what, resp.StatusCode), string(body))
	}

	var prediction Prediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, apierr.Provider(fmt.Sprintf("failed to decode response: %v", err), string(body))
	}
	prediction.raw = body
	return &prediction, nil
}

// poll re-reads p until it leaves the pending states. maxPolls <= 0 means no cap.
func (c *Client) poll(ctx context.Context, p *Prediction, maxPolls int, timeoutMsg string) (*Prediction, error) {
	polls := 0
	for p.Pending() {
		if maxPolls > 0 && polls >= maxPolls {
			return nil, apierr.Timeout(timeoutMsg)
		}

		select {
		case <-ctx.Done():
			return nil, apierr.New(apierr.KindTimeout, "prediction polling cancelled", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		next, err := c.GetPrediction(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		polls++
		p = next
	}
	return p, nil
}
