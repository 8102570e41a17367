package server

import (
	"context"
	"net/http"
	"time"

	"github.com/minhvu/skillgap/internal/extract"
	"github.com/minhvu/skillgap/internal/taxonomy"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "SkillGap Recommender API",
		"status":     "running",
		"extraction": extract.MethodHybrid,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.deps.DB.Ping(ctx); err != nil {
		status = "degraded"
	}

	cvVectors := 0
	if s.deps.CVVectors != nil {
		cvVectors = s.deps.CVVectors.Len()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":               status,
		"jobs":                 len(s.deps.Corpus.Jobs),
		"courses":              len(s.deps.Corpus.Courses),
		"demo_cvs":             len(s.deps.Corpus.DemoCVs),
		"user_cv_embeddings":   cvVectors,
		"skills_database_size": taxonomy.All().Len(),
	})
}
