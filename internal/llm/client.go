// Package llm provides the generative-model adapter used for skill
// extraction. The backing service is optional: callers must treat every
// failure here as recoverable.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client is an abstraction over generative model providers.
type Client interface {
	// GenerateJSON generates a JSON response for the prompt.
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	// Available reports whether the backing service is reachable.
	Available(ctx context.Context) bool
	// Model returns the configured model name.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// Config holds generative client settings.
type Config struct {
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default generative client configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:       "gemini-2.5-flash-lite",
		Temperature: 0.1,
		Timeout:     2 * time.Minute,
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, config: config}, nil
}

// GenerateJSON generates a JSON response for the prompt. Low temperature for
// consistent output; the response MIME type is pinned to JSON.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if ctx.Err() != nil {
			return "", &UnavailableError{Reason: fmt.Sprintf("request timed out after %s", c.config.Timeout), Cause: err}
		}
		return "", &UnavailableError{Reason: "generate content failed", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// Available probes the service by listing models with a short deadline.
func (c *GeminiClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it := c.client.ListModels(ctx)
	_, err := it.Next()
	return err == nil || err == iterator.Done
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &MalformedOutputError{Reason: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &MalformedOutputError{Reason: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &MalformedOutputError{Reason: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
