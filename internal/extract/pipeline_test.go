package extract

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu/skillgap/internal/llm"
)

type stubModel struct {
	skills []string
	err    error
}

func (s *stubModel) Extract(_ context.Context, _ string) (*llm.Extraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Extraction{Skills: s.skills, Model: "stub"}, nil
}

const sampleCV = `Jane Smith
Senior Backend Engineer

Skills:
Python, Docker, PostgreSQL

Experience:
Built data platforms with experience in Kubernetes and Terraform.`

func TestPipelineRejectsShortText(t *testing.T) {
	p := NewPipeline(nil, nil)

	_, err := p.Run(context.Background(), "too short")
	require.Error(t, err)

	var empty *EmptyDocumentError
	assert.ErrorAs(t, err, &empty)
}

func TestPipelineRulesOnlyWithoutModel(t *testing.T) {
	p := NewPipeline(nil, nil)

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err)

	assert.Equal(t, MethodRulesOnly, result.Stats.Method)
	assert.False(t, result.Stats.LLMSuccess)
	assert.Zero(t, result.Stats.FromLLM)
	for _, skill := range []string{"python", "docker", "postgresql", "kubernetes"} {
		assert.Contains(t, result.Skills, skill)
	}
}

func TestPipelineDegradesOnModelFailure(t *testing.T) {
	p := NewPipeline(&stubModel{err: &llm.UnavailableError{Reason: "down"}}, nil)

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err, "a model failure must not fail the extraction")

	assert.Equal(t, MethodRulesOnly, result.Stats.Method)
	assert.False(t, result.Stats.LLMSuccess)
	assert.Contains(t, result.Skills, "python")
}

func TestPipelineMergesModelAndRules(t *testing.T) {
	p := NewPipeline(&stubModel{skills: []string{"GraphQL", "NodeJS", "Python"}}, nil)

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err)

	assert.Equal(t, MethodHybrid, result.Stats.Method)
	assert.True(t, result.Stats.LLMSuccess)
	assert.Equal(t, 3, result.Stats.FromLLM)

	assert.Contains(t, result.Skills, "graphql")
	assert.Contains(t, result.Skills, "node.js", "model variants normalize to canonical form")
	assert.Contains(t, result.Skills, "docker", "rule hits survive the merge")

	// Union dedupes: python comes from both sources but appears once.
	count := 0
	for _, s := range result.Skills {
		if s == "python" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.True(t, sort.StringsAreSorted(result.Skills))
}

func TestPipelineCountsNormalizedModelSkills(t *testing.T) {
	// Variants that collapse to one canonical skill count once.
	p := NewPipeline(&stubModel{skills: []string{"NodeJS", "nodejs", "node.js"}}, nil)

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FromLLM)
	assert.Equal(t, []string{"node.js"}, result.BySource.LLM)
}

func TestPipelineReportsBySource(t *testing.T) {
	p := NewPipeline(&stubModel{skills: []string{"GraphQL"}}, nil)

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err)

	assert.Contains(t, result.BySource.Keyword, "python")
	assert.Contains(t, result.BySource.Section, "postgresql")
	assert.Contains(t, result.BySource.Context, "kubernetes")
	assert.Equal(t, []string{"graphql"}, result.BySource.LLM)

	// Rules is the union of the three lexical strategies.
	for _, skill := range result.BySource.Keyword {
		assert.Contains(t, result.BySource.Rules, skill)
	}
	for _, skill := range result.BySource.Section {
		assert.Contains(t, result.BySource.Rules, skill)
	}
	for _, skill := range result.BySource.Context {
		assert.Contains(t, result.BySource.Rules, skill)
	}
	assert.Equal(t, result.Stats.FromRules, len(result.BySource.Rules))
	assert.True(t, sort.StringsAreSorted(result.BySource.Rules))
}

func TestPipelineKeepsRawUnionWhenCleanupFails(t *testing.T) {
	p := NewPipeline(nil, nil)
	p.postProcess = func([]string) ([]string, error) {
		return nil, errors.New("cleanup exploded")
	}

	result, err := p.Run(context.Background(), sampleCV)
	require.NoError(t, err)
	assert.Contains(t, result.Skills, "python")
}

func TestPipelineStatsTextLength(t *testing.T) {
	p := NewPipeline(nil, nil)
	text := "  " + sampleCV + "  "

	result, err := p.Run(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, len(strings.TrimSpace(text)), result.Stats.TextLength)
}
