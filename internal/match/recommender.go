package match

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/taxonomy"
)

// TopCourses is how many courses a recommendation returns at most.
const TopCourses = 5

// RecommendedCourse is one course suggestion with its relevance breakdown.
type RecommendedCourse struct {
	CourseID       string   `json:"course_id"`
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	URL            string   `json:"url,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	Duration       string   `json:"duration,omitempty"`
	Level          string   `json:"level"`
	RelevanceScore float64  `json:"relevance_score"`
	SkillsOutcomes []string `json:"skills_outcomes"`
	RelevantSkills []string `json:"relevant_skills"`
	SkillCoverage  float64  `json:"skill_coverage"`
}

// Recommender suggests courses for a set of skills by cosine similarity
// against precomputed course embeddings.
type Recommender struct {
	embedder Embedder
	store    *embedding.Store
	corpus   *corpus.Corpus
	logger   *zap.Logger
}

// NewRecommender creates a Recommender over the course embedding store.
func NewRecommender(embedder Embedder, store *embedding.Store, c *corpus.Corpus, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{embedder: embedder, store: store, corpus: c, logger: logger}
}

// Ready reports whether the recommender has an embedder and a store to work
// with.
func (r *Recommender) Ready() bool {
	return r.embedder != nil && r.store != nil
}

// Recommend returns up to TopCourses courses most similar to the skill set,
// best first. An empty skill set or an empty course embedding store yields an
// empty result rather than an error.
func (r *Recommender) Recommend(ctx context.Context, skills taxonomy.Set) ([]RecommendedCourse, error) {
	if skills.Len() == 0 {
		return []RecommendedCourse{}, nil
	}
	if !r.Ready() {
		return nil, fmt.Errorf("course recommender is not configured")
	}
	if r.store.Len() == 0 {
		return []RecommendedCourse{}, nil
	}

	query, err := r.embedder.Embed(ctx, skills.Join(" "))
	if err != nil {
		return nil, fmt.Errorf("embed skill query: %w", err)
	}

	sims := r.store.Similarities(query)
	sort.SliceStable(sims, func(i, j int) bool { return sims[i].Score > sims[j].Score })
	if len(sims) > TopCourses {
		sims = sims[:TopCourses]
	}

	out := make([]RecommendedCourse, 0, len(sims))
	for _, sim := range sims {
		course, ok := r.corpus.Course(sim.ID)
		if !ok {
			r.logger.Warn("embedding store references unknown course", zap.String("course_id", sim.ID))
			continue
		}

		courseSkills := taxonomy.NormalizeList(course.SkillsOutcomes)
		relevant := courseSkills.Intersect(skills)

		out = append(out, RecommendedCourse{
			CourseID:       course.CourseID,
			Title:          course.Title,
			Platform:       course.Platform,
			URL:            course.URL,
			Rating:         course.Rating,
			Duration:       course.Duration,
			Level:          course.Level,
			RelevanceScore: Round2(sim.Score * 100),
			SkillsOutcomes: courseSkills.Sorted(),
			RelevantSkills: relevant.Sorted(),
			SkillCoverage:  Round2(float64(relevant.Len()) / float64(skills.Len()) * 100),
		})
	}

	return out, nil
}
