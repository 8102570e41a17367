package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/config"
	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/db"
	"github.com/minhvu/skillgap/internal/embedding"
	"github.com/minhvu/skillgap/internal/extract"
	"github.com/minhvu/skillgap/internal/llm"
	"github.com/minhvu/skillgap/internal/match"
	"github.com/minhvu/skillgap/internal/pdf"
	"github.com/minhvu/skillgap/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for CV skill extraction, job matching, and course recommendation.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.NewAppConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	data, err := corpus.Load(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	deps := server.Deps{
		DB:            database,
		Corpus:        data,
		TextExtractor: pdf.NewExtractor(),
		UploadDir:     cfg.UploadDir,
		Logger:        logger,
	}

	// The embedding provider is optional. Without it the server still runs,
	// with semantic fit reported as zero and no course recommendations.
	if cfg.EmbeddingEnabled() {
		embedder := embedding.NewEmbedder(&embedding.Config{
			APIKey:  cfg.EmbeddingAPIKey,
			BaseURL: cfg.EmbeddingBaseURL,
			Model:   cfg.EmbeddingModel,
			Dim:     cfg.EmbeddingDim,
			Logger:  logger,
		})
		if err := embedder.HealthCheck(ctx); err != nil {
			logger.Warn("embedding provider unreachable, continuing anyway", zap.Error(err))
		}
		deps.Embedder = embedder

		courseVectors := embedding.NewStore(filepath.Join(cfg.EmbeddingsDir, "courses.json"), cfg.EmbeddingDim)
		if err := courseVectors.Load(); err != nil {
			return fmt.Errorf("failed to load course embeddings: %w", err)
		}
		if courseVectors.Len() == 0 {
			logger.Warn("no course embeddings on disk, recommendations disabled until embed-data is run")
		}
		deps.Recommender = match.NewRecommender(embedder, courseVectors, data, logger)

		cvVectors := embedding.NewStore(filepath.Join(cfg.EmbeddingsDir, "user_cvs.json"), cfg.EmbeddingDim)
		if err := cvVectors.Load(); err != nil {
			return fmt.Errorf("failed to load CV embeddings: %w", err)
		}
		deps.CVVectors = cvVectors
	} else {
		logger.Info("EMBEDDING_BASE_URL not set, running without semantic matching")
	}

	deps.Engine = match.NewEngine(deps.Embedder, deps.Recommender, logger)

	// Generative extraction is optional too. Without an API key the pipeline
	// runs rules-only.
	var model extract.ModelExtractor
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer func() { _ = client.Close() }()
		model = llm.NewExtractor(client, logger)
	} else {
		logger.Info("GEMINI_API_KEY not set, skill extraction runs rules-only")
	}
	deps.Pipeline = extract.NewPipeline(model, logger)

	srv, err := server.New(server.Config{Port: servePort}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
