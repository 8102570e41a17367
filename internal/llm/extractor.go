package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

const (
	// maxInputLength bounds the CV text submitted to the model to prevent
	// context overflow.
	maxInputLength = 8000

	// defaultRetries is the number of retry attempts after the first failure.
	defaultRetries = 2

	maxSkillLength = 100
	minSkillLength = 2
)

// extractionPrompt instructs the model to return only a JSON object with a
// "skills" array.
const extractionPrompt = `Extract ALL technical and professional skills from this CV.

RULES:
- Return ONLY valid JSON, no other text
- Format: {"skills": ["skill1", "skill2"]}
- Include: programming languages, frameworks, tools, technologies, soft skills, methodologies
- Exclude: job titles, company names, responsibilities, generic words
- Be specific: use exact technology names (e.g., "React" not "frontend")

CV TEXT:
"""
%s
"""

JSON OUTPUT:`

// skillsSchema validates the structural shape of the model's response.
var skillsSchema = mustCompileSchema(`{
	"type": "object",
	"properties": {
		"skills": {"type": "array"}
	},
	"required": ["skills"]
}`)

func mustCompileSchema(raw string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid skills schema: %v", err))
	}
	return schema
}

// Extraction is the validated output of a model extraction run. Skills are
// cleaned and deduplicated but not yet canonicalized against the taxonomy;
// that happens at merge time in the pipeline.
type Extraction struct {
	Skills []string
	Model  string
}

// Extractor runs skill extraction against a generative model with bounded
// retries. All errors it returns are one of the typed classes in errors.go.
type Extractor struct {
	client  Client
	logger  *zap.Logger
	retries int
}

// NewExtractor creates an Extractor with the default retry budget.
func NewExtractor(client Client, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{client: client, logger: logger, retries: defaultRetries}
}

// Extract asks the model for the skills present in the CV text. On failure it
// retries up to its budget and then propagates the last typed error; callers
// are expected to degrade to rule-based extraction rather than fail.
func (e *Extractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	if !e.client.Available(ctx) {
		return nil, &UnavailableError{Reason: "generative service is not reachable"}
	}

	text = TruncateText(text, maxInputLength)
	prompt := fmt.Sprintf(extractionPrompt, text)

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			e.logger.Info("retrying model extraction",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", e.retries))
		}

		skills, err := e.extractOnce(ctx, prompt)
		if err != nil {
			lastErr = err
			e.logger.Warn("model extraction attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		e.logger.Info("model extraction succeeded",
			zap.Int("skills", len(skills)),
			zap.String("model", e.client.Model()))
		return &Extraction{Skills: skills, Model: e.client.Model()}, nil
	}

	return nil, lastErr
}

func (e *Extractor) extractOnce(ctx context.Context, prompt string) ([]string, error) {
	raw, err := e.client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := ExtractJSONObject(CleanJSONBlock(raw))

	result, err := skillsSchema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, &MalformedOutputError{Reason: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		return nil, &MalformedOutputError{Reason: fmt.Sprintf("response shape invalid: %v", result.Errors())}
	}

	var parsed struct {
		Skills []any `json:"skills"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &MalformedOutputError{Reason: "failed to decode skills payload", Cause: err}
	}

	skills := ValidateSkills(parsed.Skills)
	if len(skills) == 0 {
		return nil, &EmptyResultError{}
	}

	return skills, nil
}

// ValidateSkills drops non-string entries, trims, enforces length bounds, and
// collapses case-insensitive duplicates (keeping the first spelling seen).
func ValidateSkills(raw []any) []string {
	cleaned := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if len(s) < minSkillLength || len(s) > maxSkillLength {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, s)
	}

	return cleaned
}

// TruncateText bounds text to maxLen bytes, cutting only at rune boundaries
// and preferring the last sentence boundary when one falls within the final
// 20% of the budget.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}

	for maxLen > 0 && !utf8.RuneStart(text[maxLen]) {
		maxLen--
	}
	truncated := text[:maxLen]
	if lastPeriod := strings.LastIndex(truncated, "."); lastPeriod > maxLen*4/5 {
		return truncated[:lastPeriod+1]
	}
	return truncated
}
