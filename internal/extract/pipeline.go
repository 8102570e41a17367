package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minhvu/skillgap/internal/llm"
	"github.com/minhvu/skillgap/internal/taxonomy"
)

// MinTextLength is the smallest document, in characters, the pipeline will
// accept. Anything shorter is treated as an empty or unreadable document.
const MinTextLength = 50

// Extraction method labels reported in Stats.
const (
	MethodHybrid    = "hybrid-llm-rules"
	MethodRulesOnly = "rules-only"
)

// EmptyDocumentError indicates the document text was too short to extract
// anything meaningful from.
type EmptyDocumentError struct {
	Length int
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("document text too short for extraction: %d characters (minimum %d)", e.Length, MinTextLength)
}

// ModelExtractor is the generative half of the hybrid pipeline.
type ModelExtractor interface {
	Extract(ctx context.Context, text string) (*llm.Extraction, error)
}

// Stats describes where the extracted skills came from.
type Stats struct {
	TotalSkills int    `json:"total_skills"`
	FromLLM     int    `json:"from_llm"`
	FromRules   int    `json:"from_rules"`
	FromKeyword int    `json:"from_keyword"`
	FromSection int    `json:"from_section"`
	FromContext int    `json:"from_context"`
	TextLength  int    `json:"text_length"`
	LLMSuccess  bool   `json:"llm_success"`
	Method      string `json:"extraction_method"`
}

// BySource records which strategy produced which skills, each subset
// taxonomy-normalized and sorted. Rules is the union of the three lexical
// strategies.
type BySource struct {
	Keyword []string `json:"keyword"`
	Section []string `json:"section"`
	Context []string `json:"context"`
	LLM     []string `json:"llm"`
	Rules   []string `json:"rules"`
}

// Result is a completed extraction: the final merged skill list plus the
// per-source breakdown.
type Result struct {
	Skills   []string
	BySource BySource
	Stats    Stats
}

// Pipeline merges generative extraction with the three lexical strategies.
// The generative half is optional and every failure in it is recoverable:
// the pipeline degrades to rules-only output instead of failing the request.
type Pipeline struct {
	model  ModelExtractor
	logger *zap.Logger

	// postProcess is injectable so the degrade path (fall back to the raw
	// union when cleanup fails) stays testable.
	postProcess func([]string) ([]string, error)
}

// NewPipeline creates a Pipeline. A nil model means rules-only operation.
func NewPipeline(model ModelExtractor, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		model:  model,
		logger: logger,
		postProcess: func(skills []string) ([]string, error) {
			return PostProcess(skills), nil
		},
	}
}

// Run extracts skills from document text. It fails only when the text is too
// short; generative and cleanup failures degrade rather than error.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinTextLength {
		return nil, &EmptyDocumentError{Length: len(trimmed)}
	}

	var (
		keyword, section, contextual taxonomy.Set
		modelSkills                  []string
		modelOK                      bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		keyword = KeywordScan(trimmed)
		return nil
	})
	g.Go(func() error {
		section = SectionScan(trimmed)
		return nil
	})
	g.Go(func() error {
		contextual = ContextScan(trimmed)
		return nil
	})
	g.Go(func() error {
		if p.model == nil {
			return nil
		}
		extraction, err := p.model.Extract(gctx, trimmed)
		if err != nil {
			p.logger.Warn("generative extraction failed, continuing with rules only", zap.Error(err))
			return nil
		}
		modelSkills = extraction.Skills
		modelOK = true
		return nil
	})
	// The workers never return errors; Wait exists for the ctx plumbing.
	_ = g.Wait()

	rules := keyword.Union(section).Union(contextual)

	llmSkills := make(taxonomy.Set, len(modelSkills))
	for _, s := range modelSkills {
		llmSkills.Add(taxonomy.Normalize(s))
	}

	merged := rules.Union(llmSkills)

	skills, err := p.postProcess(merged.Sorted())
	if err != nil {
		p.logger.Warn("skill cleanup failed, keeping unprocessed skills", zap.Error(err))
		skills = merged.Sorted()
	}
	sort.Strings(skills)

	method := MethodRulesOnly
	if modelOK {
		method = MethodHybrid
	}

	result := &Result{
		Skills: skills,
		BySource: BySource{
			Keyword: keyword.Sorted(),
			Section: section.Sorted(),
			Context: contextual.Sorted(),
			LLM:     llmSkills.Sorted(),
			Rules:   rules.Sorted(),
		},
		Stats: Stats{
			TotalSkills: len(skills),
			FromLLM:     llmSkills.Len(),
			FromRules:   rules.Len(),
			FromKeyword: keyword.Len(),
			FromSection: section.Len(),
			FromContext: contextual.Len(),
			TextLength:  len(trimmed),
			LLMSuccess:  modelOK,
			Method:      method,
		},
	}

	p.logger.Info("skill extraction complete",
		zap.Int("total_skills", result.Stats.TotalSkills),
		zap.Int("from_llm", result.Stats.FromLLM),
		zap.Int("from_rules", result.Stats.FromRules),
		zap.String("method", method))

	return result, nil
}
