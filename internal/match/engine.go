// Package match scores candidate skills against job requirements: set-based
// skill coverage plus embedding-based semantic fit, with human-readable
// explanations and course recommendations for the gaps.
package match

import (
	"context"
	"encoding/json"
	"math"

	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/taxonomy"
)

// Fit level labels for demo matches.
const (
	LevelExcellent        = "excellent"
	LevelGood             = "good"
	LevelFair             = "fair"
	LevelNeedsImprovement = "needs_improvement"
)

// Embedder produces unit-length vectors for free text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Engine computes job to CV matches.
type Engine struct {
	embedder    Embedder
	recommender *Recommender
	logger      *zap.Logger
}

// NewEngine creates a match Engine. The embedder may be nil, in which case
// semantic fit is reported as zero.
func NewEngine(embedder Embedder, recommender *Recommender, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{embedder: embedder, recommender: recommender, logger: logger}
}

// Partition splits job skills into those the CV covers and those it lacks.
func Partition(jobSkills, cvSkills taxonomy.Set) (matched, missing taxonomy.Set) {
	return jobSkills.Intersect(cvSkills), jobSkills.Diff(cvSkills)
}

// Coverage is the fraction of required skills the CV covers. An empty
// requirement list yields zero rather than a division error.
func Coverage(matched, jobSkills taxonomy.Set) float64 {
	if jobSkills.Len() == 0 {
		return 0
	}
	return float64(matched.Len()) / float64(jobSkills.Len())
}

// Assessment maps a 0..100 match score to a fit level and summary line.
func Assessment(score float64) (level, text string) {
	switch {
	case score >= 80:
		return LevelExcellent, "Excellent! This CV is a strong fit for the job."
	case score >= 60:
		return LevelGood, "Good! Solid foundation, a few skills still to fill in."
	case score >= 40:
		return LevelFair, "Fair! Some of the required skills are present."
	default:
		return LevelNeedsImprovement, "Significant improvement needed for this role."
	}
}

// Explanations produces the two explanation lines for a user CV match, one
// for semantic fit and one for skill coverage.
func Explanations(semanticFit, coverage float64) []string {
	out := make([]string, 0, 2)

	switch {
	case semanticFit >= 0.75:
		out = append(out, "Your CV is a strong semantic match for the job description.")
	case semanticFit >= 0.6:
		out = append(out, "Your CV's career orientation is reasonably aligned with this role.")
	default:
		out = append(out, "Your CV does not yet show a clear semantic fit with this job.")
	}

	switch {
	case coverage >= 0.7:
		out = append(out, "You already cover most of the required skills.")
	case coverage >= 0.4:
		out = append(out, "You have several key skills but some are still missing.")
	default:
		out = append(out, "You are missing many of the core skills this job requires.")
	}

	return out
}

// DemoMatch is the result of matching a demo CV against a job.
type DemoMatch struct {
	JobID              string              `json:"job_id"`
	CVID               string              `json:"cv_id"`
	MatchScore         float64             `json:"match_score"`
	Level              string              `json:"level"`
	Assessment         string              `json:"assessment"`
	JobSkillsRequired  []string            `json:"job_skills_required"`
	CVSkills           []string            `json:"cv_skills"`
	MatchedSkills      []string            `json:"matched_skills"`
	MissingSkills      []string            `json:"missing_skills"`
	NumMatched         int                 `json:"num_matched"`
	NumMissing         int                 `json:"num_missing"`
	RecommendedCourses []RecommendedCourse `json:"recommended_courses"`
	Type               string              `json:"type"`
}

// MatchDemo scores a demo CV against a job using skill coverage alone.
// Course recommendation failures degrade to an empty list.
func (e *Engine) MatchDemo(ctx context.Context, job *corpus.Job, cv *corpus.DemoCV) *DemoMatch {
	jobSkills := taxonomy.NormalizeList(job.Requirements.SkillsRequired)
	cvSkills := taxonomy.NormalizeList(cv.Skills)

	matched, missing := Partition(jobSkills, cvSkills)
	score := Coverage(matched, jobSkills) * 100
	level, assessment := Assessment(score)

	courses := e.recommendForGap(ctx, missing)

	return &DemoMatch{
		JobID:              job.JobID,
		CVID:               cv.CVID,
		MatchScore:         Round2(score),
		Level:              level,
		Assessment:         assessment,
		JobSkillsRequired:  jobSkills.Sorted(),
		CVSkills:           cvSkills.Sorted(),
		MatchedSkills:      matched.Sorted(),
		MissingSkills:      missing.Sorted(),
		NumMatched:         matched.Len(),
		NumMissing:         missing.Len(),
		RecommendedCourses: courses,
		Type:               "demo",
	}
}

// UserMatch is the result of matching an uploaded CV against a job.
type UserMatch struct {
	JobID              string              `json:"job_id"`
	CVID               string              `json:"cv_id"`
	SemanticFitScore   float64             `json:"semantic_fit_score"`
	SkillCoverageScore float64             `json:"skill_coverage_score"`
	Explanations       []string            `json:"explanations"`
	JobSkillsRequired  []string            `json:"job_skills_required"`
	CVSkills           []string            `json:"cv_skills"`
	MatchedSkills      []string            `json:"matched_skills"`
	MissingSkills      []string            `json:"missing_skills"`
	RecommendedCourses []RecommendedCourse `json:"recommended_courses"`
	ExtractionStats    json.RawMessage     `json:"extraction_stats,omitempty"`
	Type               string              `json:"type"`
}

// MatchUserCV scores an uploaded CV's extracted skills against a job with
// both coverage and semantic fit. Embedding failures degrade the semantic
// score to zero rather than failing the match.
func (e *Engine) MatchUserCV(ctx context.Context, job *corpus.Job, cvID string, rawCVSkills []string) *UserMatch {
	jobSkills := taxonomy.NormalizeList(job.Requirements.SkillsRequired)
	cvSkills := taxonomy.NormalizeList(rawCVSkills)

	matched, missing := Partition(jobSkills, cvSkills)
	coverage := Coverage(matched, jobSkills)

	semanticFit := e.semanticFit(ctx, job, jobSkills, cvSkills)

	courses := e.recommendForGap(ctx, missing)

	e.logger.Info("match complete",
		zap.String("job_id", job.JobID),
		zap.String("cv_id", cvID),
		zap.Float64("semantic_fit", semanticFit),
		zap.Float64("skill_coverage", coverage))

	return &UserMatch{
		JobID:              job.JobID,
		CVID:               cvID,
		SemanticFitScore:   Round3(semanticFit),
		SkillCoverageScore: Round2(coverage * 100),
		Explanations:       Explanations(semanticFit, coverage),
		JobSkillsRequired:  jobSkills.Sorted(),
		CVSkills:           cvSkills.Sorted(),
		MatchedSkills:      matched.Sorted(),
		MissingSkills:      missing.Sorted(),
		RecommendedCourses: courses,
		Type:               "user",
	}
}

// semanticFit embeds the CV skill list against the job title, description,
// and requirements and returns their cosine similarity.
func (e *Engine) semanticFit(ctx context.Context, job *corpus.Job, jobSkills, cvSkills taxonomy.Set) float64 {
	if e.embedder == nil || cvSkills.Len() == 0 {
		return 0
	}

	jobText := job.Title + " " + job.Description + " " + jobSkills.Join(" ")
	cvText := cvSkills.Join(" ")

	jobVec, err := e.embedder.Embed(ctx, jobText)
	if err != nil {
		e.logger.Warn("job embedding failed, semantic fit unavailable", zap.Error(err))
		return 0
	}
	cvVec, err := e.embedder.Embed(ctx, cvText)
	if err != nil {
		e.logger.Warn("cv embedding failed, semantic fit unavailable", zap.Error(err))
		return 0
	}

	return cosine(jobVec, cvVec)
}

func (e *Engine) recommendForGap(ctx context.Context, missing taxonomy.Set) []RecommendedCourse {
	if e.recommender == nil || missing.Len() == 0 {
		return []RecommendedCourse{}
	}
	courses, err := e.recommender.Recommend(ctx, missing)
	if err != nil {
		e.logger.Warn("course recommendation failed", zap.Error(err))
		return []RecommendedCourse{}
	}
	return courses
}

func cosine(a, b []float32) float64 {
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

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
