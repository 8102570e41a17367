// Package embedding provides the semantic-similarity layer: an
// OpenAI-compatible embedding client and an in-memory vector store with
// JSON persistence.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrProvider marks failures of the embedding provider so transport layers
// can map them to an upstream error status.
var ErrProvider = errors.New("embedding provider error")

// Embedder produces unit-length embedding vectors via an OpenAI-compatible
// API (e.g. a locally hosted BGE-M3 server).
type Embedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
	dim    int
	logger *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Dim     int
	Logger  *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		dim:    cfg.Dim,
		logger: logger,
	}
}

// Embed returns the unit-normalized embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, parseAPIError(err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response: %w", ErrProvider)
	}

	vec := resp.Data[0].Embedding
	if e.dim > 0 && len(vec) != e.dim {
		return nil, fmt.Errorf("embedding dimension %d does not match configured %d: %w", len(vec), e.dim, ErrProvider)
	}

	Normalize(vec)
	return vec, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Model returns the configured embedding model name.
func (e *Embedder) Model() string {
	return string(e.model)
}

// Normalize scales vec to unit length in place. Zero vectors are left as is.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

// Cosine returns the cosine similarity of two vectors. For unit vectors this
// is the plain dot product; mismatched lengths yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), ErrProvider)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, ErrProvider)
	}

	return fmt.Errorf("embedding request failed: %v: %w", err, ErrProvider)
}
