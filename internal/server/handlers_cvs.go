package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/db"
	"github.com/minhvu/skillgap/internal/server/middleware"
)

// maxUploadSize caps CV uploads at 10 MiB.
const maxUploadSize = 10 << 20

// excerptLength is how much document text is kept on the CV record.
const excerptLength = 1000

func (s *Server) handleListUserCVs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cvs, err := s.deps.DB.ListCVs(r.Context(), userID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to list CVs")
		return
	}
	if cvs == nil {
		cvs = []db.CVRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cvs":     cvs,
		"total":   len(cvs),
		"user_id": userID,
	})
}

func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		errorJSON(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	cvID := uuid.New()
	filePath := filepath.Join(s.deps.UploadDir, cvID.String()+".pdf")
	if err := s.saveUpload(filePath, file); err != nil {
		s.logger.Error("failed to store upload", zap.Error(err))
		errorJSON(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	text, err := s.deps.TextExtractor.ExtractText(filePath)
	if err != nil {
		s.discardUpload(filePath)
		s.logger.Warn("text extraction failed", zap.String("cv_id", cvID.String()), zap.Error(err))
		errorJSON(w, http.StatusBadRequest, "could not read text from the document")
		return
	}

	result, err := s.deps.Pipeline.Run(r.Context(), text)
	if err != nil {
		s.discardUpload(filePath)
		errorJSON(w, HTTPStatus(err), err.Error())
		return
	}

	stats, _ := json.Marshal(result.Stats)
	bySource, _ := json.Marshal(result.BySource)
	record := &db.CVRecord{
		CVID:        cvID,
		UserID:      userID,
		Filename:    header.Filename,
		FilePath:    filePath,
		TextExcerpt: excerpt(text, excerptLength),
		Skills:      result.Skills,
		BySource:    bySource,
		Stats:       stats,
	}

	if err := s.deps.DB.SaveCV(r.Context(), record); err != nil {
		s.discardUpload(filePath)
		s.logger.Error("failed to save CV record", zap.Error(err))
		errorJSON(w, http.StatusInternalServerError, "failed to save CV")
		return
	}

	// Embedding failures are logged but do not fail the upload; matching
	// degrades to coverage-only for this CV.
	s.indexCVSkills(r, cvID, record.Skills)

	s.logger.Info("cv uploaded",
		zap.String("cv_id", cvID.String()),
		zap.Int("skills", len(record.Skills)),
		zap.String("method", result.Stats.Method))

	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "CV uploaded and processed",
		"cv_id":            cvID,
		"skills_extracted": len(record.Skills),
		"extraction_stats": result.Stats,
		"skills":           record.Skills,
		"skills_by_source": result.BySource,
	})
}

func (s *Server) handleDeleteUserCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cvID, err := uuid.Parse(r.PathValue("cv_id"))
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

	deleted, err := s.deps.DB.DeleteCV(r.Context(), cvID, userID)
	if err != nil || !deleted {
		errorJSON(w, http.StatusInternalServerError, "failed to delete CV")
		return
	}

	s.discardUpload(cv.FilePath)

	if s.deps.CVVectors != nil {
		s.deps.CVVectors.Remove(cvID.String())
		if err := s.deps.CVVectors.Save(); err != nil {
			s.logger.Warn("failed to persist CV embeddings after delete", zap.Error(err))
		}
	}

	s.logger.Info("cv deleted", zap.String("cv_id", cvID.String()))
	writeJSON(w, http.StatusOK, map[string]string{"message": "CV deleted"})
}

func (s *Server) saveUpload(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func (s *Server) discardUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove uploaded file", zap.String("path", path), zap.Error(err))
	}
}

// indexCVSkills embeds the CV's skill list and persists it to the vector
// store keyed by the CV ID.
func (s *Server) indexCVSkills(r *http.Request, cvID uuid.UUID, skills []string) {
	if s.deps.Embedder == nil || s.deps.CVVectors == nil || len(skills) == 0 {
		return
	}

	vec, err := s.deps.Embedder.Embed(r.Context(), strings.Join(skills, " "))
	if err != nil {
		s.logger.Warn("failed to embed CV skills", zap.String("cv_id", cvID.String()), zap.Error(err))
		return
	}
	if err := s.deps.CVVectors.Append(cvID.String(), vec); err != nil {
		s.logger.Warn("failed to index CV embedding", zap.String("cv_id", cvID.String()), zap.Error(err))
		return
	}
	if err := s.deps.CVVectors.Save(); err != nil {
		s.logger.Warn("failed to persist CV embeddings", zap.Error(err))
	}
}

// excerpt truncates to at most n bytes without splitting a UTF-8 rune.
func excerpt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
