package extraction

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

	"github.com/tubetrade/rfq-api/internal/config"
	"github.com/tubetrade/rfq-api/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"

	// Backoff between retries on transient upstream failures.
	retryBackoff = 2 * time.Second
)

// Client calls an OpenAI-compatible completion API for structured extraction
// and clarification summaries. Each request is bounded by the configured
// timeout; caller cancellation propagates and abandons the upstream call.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates the capability client from configuration. The API key is
// required; everything else has sensible defaults.
func NewClient(cfg *config.ExtractionConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("extraction API key is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	logger.Info("Extraction client initialized",
		zap.String("base_url", baseURL),
		zap.String("model", model),
		zap.Int("timeout_seconds", cfg.Timeout),
		zap.Int("max_retries", cfg.MaxRetries),
	)

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      model,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:     logger,
	}, nil
}

// Extract runs one structured-extraction pass over the instruction text,
// prior items and attachments, returning the raw extraction result.
func (c *Client) Extract(ctx context.Context, in Input) (*domain.ExtractionResult, error) {
	userPrompt, err := buildUserPrompt(in)
	if err != nil {
		return nil, err
	}

	messages := []chatMessage{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: userContent(userPrompt, in.Attachments)},
	}

	req := &chatRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "rfq_extraction",
				Strict: true,
				Schema: extractionSchema(),
			},
		},
	}

	raw, err := c.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeResult(raw)
}

// Summarize produces a short confirmation sentence about the current RFQ
// state in the requested language. Callers treat failures as recoverable.
func (c *Client) Summarize(ctx context.Context, stateSummary, userMessage, language string) (string, error) {
	if language == "" {
		language = "en"
	}

	system := fmt.Sprintf(
		"You confirm procurement request changes in one or two short sentences. Respond in language %q. Do not invent details.",
		language,
	)
	user := fmt.Sprintf("Current RFQ state:\n%s\n\nLatest user instruction:\n%s", stateSummary, userMessage)

	req := &chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	text, err := c.complete(ctx, req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// userContent builds the user message content. Image attachments are inlined
// as data URLs; other document types were already referenced by name in the
// prompt text.
func userContent(prompt string, attachments []domain.Attachment) any {
	images := make([]domain.Attachment, 0, len(attachments))
	for _, att := range attachments {
		if strings.HasPrefix(att.MediaType, "image/") {
			images = append(images, att)
		}
	}
	if len(images) == 0 {
		return prompt
	}

	parts := make([]map[string]any, 0, 1+len(images))
	parts = append(parts, map[string]any{"type": "text", "text": prompt})
	for _, img := range images {
		parts = append(parts, map[string]any{
			"type": "image_url",
			"image_url": map[string]any{
				"url": fmt.Sprintf("data:%s;base64,%s", img.MediaType, base64.StdEncoding.EncodeToString(img.Data)),
			},
		})
	}
	return parts
}

// complete posts a chat completion request and returns the first choice's
// content, retrying transient upstream failures.
func (c *Client) complete(ctx context.Context, req *chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	attempts := c.maxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		text, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		c.logger.Warn("extraction request failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
		)
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, body []byte) (text string, retryable bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", true, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", true, fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("completion API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("completion API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("completion response has no choices")
	}
	if refusal := parsed.Choices[0].Message.Refusal; refusal != "" {
		return "", false, fmt.Errorf("model refused: %s", refusal)
	}
	if strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", false, fmt.Errorf("completion response has empty content")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
