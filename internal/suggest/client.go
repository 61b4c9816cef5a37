package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-chart-dashboard/internal/model"
)

// Config holds the suggestion service connection settings
type Config struct {
	APIKey   string `koanf:"api_key"`
	Model    string `koanf:"model"`
	Endpoint string `koanf:"endpoint"`
}

// DefaultConfig returns a Config with sensible Gemini defaults
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:   apiKey,
		Model:    "gemini-2.0-flash",
		Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
	}
}

// Client asks a Gemini-style generateContent endpoint for chart suggestions.
// It only ever sees column metadata and a handful of sample values, never
// the full dataset. This is the one component that talks to an external AI
// service; the dashboard core just consumes what it returns.
type Client struct {
	config Config
	client *http.Client
}

// New creates a suggestion client, filling in Gemini defaults for any blank
// config fields
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// retryDelay sits between the two attempts at a transient failure
const retryDelay = 500 * time.Millisecond

// errTransient marks failures worth one more attempt: the request never
// arrived, or the service answered 5xx
var errTransient = errors.New("transient suggestion failure")

// Suggest proposes charts for the dataset. Axes are checked against the
// dataset's columns, so everything returned validates cleanly; items the
// model got wrong are dropped, not surfaced. Any terminal failure comes
// back as an error for the caller to turn into an empty batch.
func (c *Client) Suggest(ctx context.Context, ds *model.Dataset) ([]model.Suggestion, error) {
	prompt := BuildPrompt(ds)
	fmt.Printf("🔍 Suggest: asking %s for charts over %d columns\n", c.config.Model, len(ds.Columns))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			fmt.Printf("🔄 Suggest: retrying after transient failure\n")
		}

		text, err := c.generate(ctx, prompt)
		if err != nil {
			lastErr = err
			if errors.Is(err, errTransient) {
				continue
			}
			break
		}

		suggestions, err := parseSuggestions(text, ds.Columns)
		if err != nil {
			return nil, err
		}
		fmt.Printf("✅ Suggest: %d usable suggestions\n", len(suggestions))
		return suggestions, nil
	}
	return nil, lastErr
}

// geminiRequest is the generateContent request body
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the generateContent response body
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// generate sends one prompt and returns the model's text reply
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		c.config.Endpoint, c.config.Model, c.config.APIKey)

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("%w: API returned %d", errTransient, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned %d: %.200s", resp.StatusCode, string(body))
	}

	var reply geminiResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}
	if reply.Error != nil {
		return "", fmt.Errorf("API error %d: %s", reply.Error.Code, reply.Error.Message)
	}
	if len(reply.Candidates) == 0 || len(reply.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("API returned an empty response")
	}
	return reply.Candidates[0].Content.Parts[0].Text, nil
}
