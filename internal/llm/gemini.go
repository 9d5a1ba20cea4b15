package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinepick/internal/metrics"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiClient wraps the Gemini generateContent REST API.
type GeminiClient struct {
	cfg      Config
	settings settings
}

var _ Generator = (*GeminiClient)(nil)

// NewGemini constructs a Gemini client.
func NewGemini(cfg Config, opts ...Option) *GeminiClient {
	cfg = normalizeConfig(cfg)
	cfg.Provider = ProviderGemini
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &GeminiClient{cfg: cfg, settings: newSettings(cfg, opts)}
}

// Provider returns the provider name used in logs and metrics.
func (c *GeminiClient) Provider() string { return ProviderGemini }

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("gemini generate: prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("gemini generate: api key required")
	}
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{Temperature: c.cfg.Temperature},
	}

	start := time.Now()
	text, err := withRetry(ctx, c.settings, c.cfg.RetryAttempts, func() (string, error) {
		return c.sendOnce(ctx, payload)
	})
	metrics.ObserveLLM(ProviderGemini, err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return text, nil
}

func (c *GeminiClient) sendOnce(ctx context.Context, payload geminiRequest) (string, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, url.PathEscape(c.cfg.Model)))
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	endpoint.RawQuery = params.Encode()

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.settings.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http error (timeout=%s): %w", c.settings.httpClient.Timeout, redactKey(err, c.cfg.APIKey))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("api error %d: %s", decoded.Error.Code, strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Candidates) == 0 {
		reason := ""
		if decoded.PromptFeedback != nil {
			reason = decoded.PromptFeedback.BlockReason
		}
		return "", &EmptyContentError{Op: "gemini", FinishReason: reason, Snippet: summarizePayloadSnippet(string(body))}
	}

	first := decoded.Candidates[0]
	var builder strings.Builder
	for _, part := range first.Content.Parts {
		builder.WriteString(part.Text)
	}
	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", &EmptyContentError{Op: "gemini", FinishReason: first.FinishReason, Snippet: summarizePayloadSnippet(string(body))}
	}
	return text, nil
}

// redactKey strips the API key from transport errors, which embed the request
// URL. The wrapped cause stays reachable through errors.Is and errors.As.
func redactKey(err error, key string) error {
	if err == nil || key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !strings.Contains(urlErr.Err.Error(), key) {
		return &url.Error{Op: urlErr.Op, URL: strings.ReplaceAll(urlErr.URL, key, "REDACTED"), Err: urlErr.Err}
	}
	return &redactedError{err: err, key: key}
}

type redactedError struct {
	err error
	key string
}

func (e *redactedError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.key, "REDACTED")
}

func (e *redactedError) Unwrap() error { return e.err }
