package vertex

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"holoframe-backend/internal/apierr"
)

const (
	DefaultPollInterval = 20 * time.Second
	DefaultMaxPolls     = 150
)

// TokenProvider supplies OAuth bearer tokens for the Vertex API.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type Client struct {
	baseURL      string
	projectID    string
	location     string
	model        string
	tokens       TokenProvider
	httpClient   *http.Client
	pollInterval time.Duration
	maxPolls     int
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if maxPolls > 0 {
			c.maxPolls = maxPolls
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(projectID, location, model string, tokens TokenProvider, opts ...Option) *Client {
	if location == "" {
		location = "us-central1"
	}
	c := &Client{
		baseURL:   fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1", location),
		projectID: projectID,
		location:  location,
		model:     model,
		tokens:    tokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type GenerateRequest struct {
	Prompt           string
	ImageBytes       []byte
	ImageMimeType    string
	AspectRatio      string
	DurationSeconds  int
	Resolution       string
	PersonGeneration string
	StorageURI       string
}

type instance struct {
	Prompt string     `json:"prompt"`
	Image  *imageData `json:"image,omitempty"`
}

type imageData struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type parameters struct {
	AspectRatio      string `json:"aspectRatio"`
	DurationSeconds  int    `json:"durationSeconds"`
	Resolution       string `json:"resolution,omitempty"`
	PersonGeneration string `json:"personGeneration"`
	SampleCount      int    `json:"sampleCount"`
	GenerateAudio    bool   `json:"generateAudio"`
	StorageURI       string `json:"storageUri,omitempty"`
}

type predictRequest struct {
	Instances  []instance `json:"instances"`
	Parameters parameters `json:"parameters"`
}

type OperationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *OperationError `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`

	Raw []byte `json:"-"`
}

func (c *Client) modelURL(method string) string {
	return fmt.Sprintf("%s/projects/%s/locations/%s/publishers/google/models/%s:%s",
		c.baseURL, c.projectID, c.location, c.model, method)
}

// Submit starts a long-running generation and returns the operation name.
func (c *Client) Submit(ctx context.Context, req GenerateRequest) (string, error) {
	if c.projectID == "" {
		return "", apierr.Configuration("GOOGLE_PROJECT_ID is not configured")
	}

	inst := instance{Prompt: req.Prompt}
	if len(req.ImageBytes) > 0 {
		mime := req.ImageMimeType
		if mime == "" {
			mime = "image/png"
		}
		inst.Image = &imageData{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.ImageBytes),
			MimeType:           mime,
		}
	}

	params := parameters{
		AspectRatio:      firstNonEmpty(req.AspectRatio, "9:16"),
		DurationSeconds:  req.DurationSeconds,
		Resolution:       firstNonEmpty(req.Resolution, "720p"),
		PersonGeneration: firstNonEmpty(req.PersonGeneration, "allow_adult"),
		SampleCount:      1,
		StorageURI:       req.StorageURI,
	}
	if params.DurationSeconds == 0 {
		params.DurationSeconds = 8
	}

	body, err := c.post(ctx, c.modelURL("predictLongRunning"), predictRequest{
		Instances:  []instance{inst},
		Parameters: params,
	}, "failed to submit video generation")
	if err != nil {
		return "", err
	}

	var op Operation
	if err := json.Unmarshal(body, &op); err != nil {
		return "", apierr.Provider(fmt.Sprintf("failed to decode operation: %v", err), string(body))
	}
	if op.Name == "" {
		return "", apierr.Provider("operation name missing from response", string(body))
	}
	return op.Name, nil
}

// FetchOperation reads the state of a publisher-model operation. Publisher
// models do not expose operations by resource path, so this is a POST.
func (c *Client) FetchOperation(ctx context.Context, operationName string) (*Operation, error) {
	body, err := c.post(ctx, c.modelURL("fetchPredictOperation"), map[string]string{
		"operationName": operationName,
	}, "failed to fetch operation")
	if err != nil {
		return nil, err
	}

	var op Operation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, apierr.Provider(fmt.Sprintf("failed to decode operation: %v", err), string(body))
	}
	op.Raw = body
	return &op, nil
}

// Wait polls operationName until done or until maxPolls fetches have been made.
func (c *Client) Wait(ctx context.Context, operationName string) (Result, error) {
	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return Result{}, apierr.New(apierr.KindTimeout, "operation polling cancelled", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		op, err := c.FetchOperation(ctx, operationName)
		if err != nil {
			return Result{}, err
		}
		if !op.Done {
			continue
		}
		if op.Error != nil {
			return Result{}, OperationFailure(op)
		}
		return ParseResult(op.Response), nil
	}
	return Result{}, apierr.Timeout(fmt.Sprintf("video generation timed out after %d polls (영상 생성 시간 초과)", c.maxPolls))
}

// Generate submits and waits.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	name, err := c.Submit(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return c.Wait(ctx, name)
}

func OperationFailure(op *Operation) error {
	msg := "video generation failed"
	if op.Error != nil && op.Error.Message != "" {
		msg = fmt.Sprintf("video generation failed: %s (code %d)", op.Error.Message, op.Error.Code)
	}
	return apierr.Provider(msg, string(op.Raw))
}

func (c *Client) post(ctx context.Context, url string, payload interface{}, what string) ([]byte, error) {
	if c.tokens == nil {
		return nil, apierr.Configuration("google credentials are not configured")
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

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
	return body, nil
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
