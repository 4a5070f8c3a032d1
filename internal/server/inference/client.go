package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/logging"
)

const (
	DefaultHost    = "https://api.ollama.com"
	DefaultModel   = "qwen3-vl:235b-instruct-cloud"
	DefaultTimeout = 180 * time.Second

	chatPath = "/api/chat"
	// cap on the error body echoed into logs
	maxErrorBody = 512
)

// Config captures the settings needed to reach the model.
type Config struct {
	Host   string
	Model  string
	APIKey string
	// Timeout bounds one request; 0 disables it.
	Timeout time.Duration
	Prompt  string
}

// Client calls Ollama's non-streaming chat endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     logging.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.Host = strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Prompt == "" {
		cfg.Prompt = AuditorPrompt
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error"`
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama chat: http %d: %s", e.StatusCode, e.Body)
}

// Transcribe sends image to the model and parses the reply. It never fails:
// any problem yields the fallback Result with Err set.
func (c *Client) Transcribe(ctx context.Context, image []byte) Result {
	content, err := c.chat(ctx, image)
	if err != nil {
		c.logger.Error(ctx, "ollama request failed", "model", c.cfg.Model, "error", err)
		return fallback(err)
	}
	c.logger.Debug(ctx, "ollama reply", "model", c.cfg.Model, "content", content)

	transcription, request, err := ParseReply(content)
	if err != nil {
		c.logger.Warn(ctx, "ollama reply not in expected format", "model", c.cfg.Model, "error", err)
		return fallback(err)
	}

	return Result{Transcription: transcription, IdentifiedRequest: request}
}

func (c *Client) chat(ctx context.Context, image []byte) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.New("ollama chat: api key required")
	}

	endpoint, err := url.JoinPath(c.cfg.Host, chatPath)
	if err != nil {
		return "", fmt.Errorf("ollama chat: build url: %w", err)
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{{
			Role:    "user",
			Content: c.cfg.Prompt,
			Images:  []string{base64.StdEncoding.EncodeToString(image)},
		}},
		Stream: false,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama chat: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("ollama chat: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: http error (timeout=%s): %w", c.cfg.Timeout, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama chat: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("ollama chat: decode body: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", decoded.Error)
	}
	if strings.TrimSpace(decoded.Message.Content) == "" {
		return "", ErrEmptyReply
	}

	return decoded.Message.Content, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
