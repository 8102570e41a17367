package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/minhvu/skillgap/internal/server/middleware"
	"github.com/minhvu/skillgap/internal/taxonomy"
	"github.com/minhvu/skillgap/internal/types"
)

func (s *Server) handleMatchDemo(w http.ResponseWriter, r *http.Request) {
	var req types.DemoMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, ok := s.deps.Corpus.Job(req.JobID)
	if !ok {
		errorJSON(w, http.StatusNotFound, "job not found")
		return
	}
	cv, ok := s.deps.Corpus.DemoCV(req.CVID)
	if !ok {
		errorJSON(w, http.StatusNotFound, "demo CV not found")
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Engine.MatchDemo(r.Context(), job, cv))
}

func (s *Server) handleMatchUserCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.MatchUserCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, ok := s.deps.Corpus.Job(req.JobID)
	if !ok {
		errorJSON(w, http.StatusNotFound, "job not found")
		return
	}

	cvID, err := uuid.Parse(req.CVID)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid cv_id")
		return
	}

	cv, err := s.deps.DB.GetCV(r.Context(), cvID, userID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to load CV")
		return
	}
	if cv == nil {
		errorJSON(w, http.StatusNotFound, "CV not found or not owned by you")
		return
	}

	result := s.deps.Engine.MatchUserCV(r.Context(), job, cv.CVID.String(), cv.Skills)
	result.ExtractionStats = cv.Stats
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommendCourses(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendCoursesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, "skills list must not be empty")
		return
	}

	if s.deps.Recommender == nil || !s.deps.Recommender.Ready() {
		errorJSON(w, http.StatusInternalServerError, "course embeddings are not available")
		return
	}

	normalized := taxonomy.NormalizeList(req.Skills)
	courses, err := s.deps.Recommender.Recommend(r.Context(), normalized)
	if err != nil {
		errorJSON(w, HTTPStatus(err), "course recommendation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requested_skills":    normalized.Sorted(),
		"recommended_courses": courses,
		"total_recommended":   len(courses),
	})
}
