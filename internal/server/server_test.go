package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/db"
	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/extract"
	"github.com/minhvu/skillgap/internal/match"
)

// memDB is an in-memory DBClient for handler tests.
type memDB struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
	cvs   map[uuid.UUID]*db.CVRecord
}

func newMemDB() *memDB {
	return &memDB{
		users: make(map[uuid.UUID]*db.User),
		cvs:   make(map[uuid.UUID]*db.CVRecord),
	}
}

func (m *memDB) CreateUser(_ context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.users[id] = &db.User{ID: id, Username: username, Email: email, PasswordHash: passwordHash}
	return id, nil
}

func (m *memDB) GetUser(_ context.Context, userID uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID], nil
}

func (m *memDB) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memDB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memDB) SaveCV(_ context.Context, cv *db.CVRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cvs[cv.CVID] = cv
	return nil
}

func (m *memDB) GetCV(_ context.Context, cvID, userID uuid.UUID) (*db.CVRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[cvID]
	if !ok || cv.UserID != userID {
		return nil, nil
	}
	return cv, nil
}

func (m *memDB) ListCVs(_ context.Context, userID uuid.UUID) ([]db.CVRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.CVRecord
	for _, cv := range m.cvs {
		if cv.UserID == userID {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (m *memDB) DeleteCV(_ context.Context, cvID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[cvID]
	if !ok || cv.UserID != userID {
		return false, nil
	}
	delete(m.cvs, cvID)
	return true, nil
}

func (m *memDB) Ping(context.Context) error { return nil }

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(string) (string, error) { return s.text, s.err }

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

const cvText = `Experienced engineer.

Skills:
Python, SQL, Docker

Worked on data platforms for five years.`

func testServer(t *testing.T, database DBClient) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")

	c := corpus.New(
		[]corpus.Job{{
			JobID:       "job-1",
			Title:       "Backend Engineer",
			Description: "Build APIs",
			Requirements: corpus.JobRequirements{
				SkillsRequired: []string{"python", "sql", "docker"},
			},
		}},
		[]corpus.Course{{
			CourseID: "course-1", Title: "SQL Fundamentals", Platform: "Coursera",
			Level: "Beginner", SkillsOutcomes: []string{"sql"},
		}},
		[]corpus.DemoCV{{
			CVID: "demo-1", StudentName: "Student 1",
			Skills: []string{"python", "communication"},
		}},
	)

	srv, err := New(Config{Port: 0}, Deps{
		DB:            database,
		Corpus:        c,
		Pipeline:      extract.NewPipeline(nil, nil),
		TextExtractor: &stubExtractor{text: cvText},
		Engine:        match.NewEngine(nil, nil, nil),
		Embedder:      stubEmbedder{},
		CVVectors:     embedding.NewStore(filepath.Join(t.TempDir(), "user_cvs.json"), 2),
		UploadDir:     t.TempDir(),
	})
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterLoginAndMe(t *testing.T) {
	srv := testServer(t, newMemDB())
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := testServer(t, newMemDB())
	registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := testServer(t, newMemDB())
	registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := testServer(t, newMemDB())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodGet, "/user-cvs"},
		{http.MethodPost, "/match-user-cv"},
	} {
		rec := doJSON(t, srv, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := doJSON(t, srv, http.MethodGet, "/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobsEndpoints(t *testing.T) {
	srv := testServer(t, newMemDB())

	rec := doJSON(t, srv, http.MethodGet, "/jobs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = doJSON(t, srv, http.MethodGet, "/jobs/job-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/jobs/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCoursesFilter(t *testing.T) {
	srv := testServer(t, newMemDB())

	rec := doJSON(t, srv, http.MethodGet, "/courses?platform=coursera", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Total int `json:"total"`
		Shown int `json:"shown"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	rec = doJSON(t, srv, http.MethodGet, "/courses?level=advanced", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)

	rec = doJSON(t, srv, http.MethodGet, "/courses?limit=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchDemo(t *testing.T) {
	srv := testServer(t, newMemDB())

	rec := doJSON(t, srv, http.MethodPost, "/match-demo", "", map[string]string{
		"job_id": "job-1",
		"cv_id":  "demo-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result match.DemoMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 33.33, result.MatchScore, 1e-9)
	assert.Equal(t, []string{"python"}, result.MatchedSkills)
	assert.Equal(t, []string{"docker", "sql"}, result.MissingSkills)

	rec = doJSON(t, srv, http.MethodPost, "/match-demo", "", map[string]string{
		"job_id": "missing",
		"cv_id":  "demo-1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uploadPDF(t *testing.T, srv *Server, token, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-cv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadListMatchDeleteCV(t *testing.T) {
	database := newMemDB()
	srv := testServer(t, database)
	token := registerAndLogin(t, srv)

	rec := uploadPDF(t, srv, token, "my-cv.pdf")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var uploaded struct {
		CVID     string           `json:"cv_id"`
		Skills   []string         `json:"skills"`
		BySource extract.BySource `json:"skills_by_source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.Contains(t, uploaded.Skills, "python")
	assert.Contains(t, uploaded.Skills, "docker")
	assert.Contains(t, uploaded.BySource.Keyword, "python")
	assert.Contains(t, uploaded.BySource.Rules, "docker")
	assert.Equal(t, 1, srv.deps.CVVectors.Len(), "upload must index one embedding row")

	rec = doJSON(t, srv, http.MethodGet, "/user-cvs", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	rec = doJSON(t, srv, http.MethodPost, "/match-user-cv", token, map[string]string{
		"job_id": "job-1",
		"cv_id":  uploaded.CVID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result match.UserMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 100, result.SkillCoverageScore, 1e-9)
	assert.Empty(t, result.MissingSkills)

	var storedStats extract.Stats
	require.NotEmpty(t, result.ExtractionStats, "match response carries the stored extraction stats")
	require.NoError(t, json.Unmarshal(result.ExtractionStats, &storedStats))
	assert.Equal(t, extract.MethodRulesOnly, storedStats.Method)

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/user-cvs/%s", uploaded.CVID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Zero(t, srv.deps.CVVectors.Len(), "delete must remove the embedding row")

	rec = doJSON(t, srv, http.MethodGet, "/user-cvs", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Total)
}

func TestExcerptKeepsValidUTF8(t *testing.T) {
	text := strings.Repeat("a", excerptLength-1) + "é" + strings.Repeat("b", 10)
	got := excerpt(text, excerptLength)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", excerptLength-1), got)

	short := "ngắn"
	assert.Equal(t, short, excerpt(short, excerptLength))
}

func TestUploadRejectsNonPDF(t *testing.T) {
	srv := testServer(t, newMemDB())
	token := registerAndLogin(t, srv)

	rec := uploadPDF(t, srv, token, "cv.docx")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsUnreadableDocument(t *testing.T) {
	srv := testServer(t, newMemDB())
	srv.deps.TextExtractor = &stubExtractor{text: "tiny"}
	token := registerAndLogin(t, srv)

	rec := uploadPDF(t, srv, token, "cv.pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkillsEndpoints(t *testing.T) {
	srv := testServer(t, newMemDB())

	rec := doJSON(t, srv, http.MethodGet, "/skills/list", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var skills struct {
		TotalSkills int `json:"total_skills"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skills))
	assert.Greater(t, skills.TotalSkills, 100)

	rec = doJSON(t, srv, http.MethodPost, "/skills/normalize", "", map[string]any{
		"skills": []string{"NodeJS", "Python", "k8s"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var normalized struct {
		Normalized []string `json:"normalized"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &normalized))
	assert.Equal(t, []string{"kubernetes", "node.js", "python"}, normalized.Normalized)

	rec = doJSON(t, srv, http.MethodPost, "/skills/normalize", "", map[string]any{"skills": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := testServer(t, newMemDB())

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health struct {
		Status string `json:"status"`
		Jobs   int    `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 1, health.Jobs)
}
