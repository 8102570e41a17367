package server

import (
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":  s.deps.Corpus.Jobs,
		"total": len(s.deps.Corpus.Jobs),
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	job, ok := s.deps.Corpus.Job(jobID)
	if !ok {
		errorJSON(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			errorJSON(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	platform := r.URL.Query().Get("platform")
	level := r.URL.Query().Get("level")

	filtered := s.deps.Corpus.Courses
	if platform != "" || level != "" {
		filtered = nil
		for _, c := range s.deps.Corpus.Courses {
			if platform != "" && !strings.EqualFold(c.Platform, platform) {
				continue
			}
			if level != "" && !strings.EqualFold(c.Level, level) {
				continue
			}
			filtered = append(filtered, c)
		}
	}

	shown := filtered
	if len(shown) > limit {
		shown = shown[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"courses": shown,
		"total":   len(filtered),
		"shown":   len(shown),
	})
}

func (s *Server) handleListDemoCVs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cvs":   s.deps.Corpus.DemoCVs,
		"total": len(s.deps.Corpus.DemoCVs),
		"type":  "demo",
	})
}
