package server

import (
	"encoding/json"
	"net/http"

	"github.com/minhvu/skillgap/internal/taxonomy"
	"github.com/minhvu/skillgap/internal/types"
)

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"technical_skills": taxonomy.Technical.Sorted(),
		"soft_skills":      taxonomy.Soft.Sorted(),
		"methodologies":    taxonomy.Methodology.Sorted(),
		"total_skills":     taxonomy.All().Len(),
	})
}

func (s *Server) handleNormalizeSkills(w http.ResponseWriter, r *http.Request) {
	var req types.NormalizeSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		errorJSON(w, http.StatusBadRequest, "skills list must not be empty")
		return
	}

	normalized := taxonomy.NormalizeList(req.Skills)
	writeJSON(w, http.StatusOK, map[string]any{
		"original":   req.Skills,
		"normalized": normalized.Sorted(),
		"count":      normalized.Len(),
	})
}
