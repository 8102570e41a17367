package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/config"
	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/db"
	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/extract"
	"github.com/minhvu/skillgap/internal/match"
	"github.com/minhvu/skillgap/internal/server/middleware"
)

// DBClient is the database surface the server depends on.
type DBClient interface {
	UserStore
	SaveCV(ctx context.Context, cv *db.CVRecord) error
	GetCV(ctx context.Context, cvID, userID uuid.UUID) (*db.CVRecord, error)
	ListCVs(ctx context.Context, userID uuid.UUID) ([]db.CVRecord, error)
	DeleteCV(ctx context.Context, cvID, userID uuid.UUID) (bool, error)
	Ping(ctx context.Context) error
}

// TextExtractor converts an uploaded document to plain text.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// SkillPipeline runs hybrid skill extraction over document text.
type SkillPipeline interface {
	Run(ctx context.Context, text string) (*extract.Result, error)
}

// Deps carries the wired dependencies of a Server.
type Deps struct {
	DB            DBClient
	Corpus        *corpus.Corpus
	Pipeline      SkillPipeline
	TextExtractor TextExtractor
	Engine        *match.Engine
	Recommender   *match.Recommender
	Embedder      match.Embedder    // nil disables CV embeddings
	CVVectors     *embedding.Store  // uploaded CV embeddings
	UploadDir     string
	Logger        *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *zap.Logger

	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a server instance. Auth configuration is read from the
// environment the same way the rest of the config package does.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{deps: deps, logger: deps.Logger}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(deps.DB, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // extraction can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request mux.
func (s *Server) routes() *http.ServeMux {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /register", s.authHandler.Register)
	mux.HandleFunc("POST /login", s.authHandler.Login)
	mux.Handle("GET /me", auth(http.HandlerFunc(s.authHandler.Me)))

	// Public corpus
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{job_id}", s.handleGetJob)
	mux.HandleFunc("GET /courses", s.handleListCourses)
	mux.HandleFunc("GET /demo-cvs", s.handleListDemoCVs)

	// Matching
	mux.HandleFunc("POST /match-demo", s.handleMatchDemo)
	mux.Handle("POST /match-user-cv", auth(http.HandlerFunc(s.handleMatchUserCV)))

	// User CV management
	mux.Handle("GET /user-cvs", auth(http.HandlerFunc(s.handleListUserCVs)))
	mux.Handle("POST /upload-cv", auth(http.HandlerFunc(s.handleUploadCV)))
	mux.Handle("DELETE /user-cvs/{cv_id}", auth(http.HandlerFunc(s.handleDeleteUserCV)))

	// Recommendations and skill utilities
	mux.HandleFunc("POST /recommend-courses", s.handleRecommendCourses)
	mux.HandleFunc("GET /skills/list", s.handleListSkills)
	mux.HandleFunc("POST /skills/normalize", s.handleNormalizeSkills)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// errorJSON writes an error JSON response.
func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
