package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minhvu/skillgap/internal/config"
	"github.com/minhvu/skillgap/internal/corpus"
	"github.com/minhvu/skillgap/internal/embedding"
)

var embedDataCmd = &cobra.Command{
	Use:   "embed-data",
	Short: "Build embedding matrices for the jobs, courses, and demo CV corpus",
	Long:  `Embed every job, course, and demo CV in the data directory and persist the resulting matrices. The serve command loads these at startup.`,
	RunE:  runEmbedData,
}

func init() {
	rootCmd.AddCommand(embedDataCmd)
}

// embedEntry is one item of a corpus batch: its stable ID and the text fed to
// the embedding model.
type embedEntry struct {
	ID   string
	Text string
}

func runEmbedData(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.NewAppConfig()
	if err != nil {
		return err
	}
	if !cfg.EmbeddingEnabled() {
		return fmt.Errorf("EMBEDDING_BASE_URL is required for embed-data")
	}

	ctx := cmd.Context()

	embedder := embedding.NewEmbedder(&embedding.Config{
		APIKey:  cfg.EmbeddingAPIKey,
		BaseURL: cfg.EmbeddingBaseURL,
		Model:   cfg.EmbeddingModel,
		Dim:     cfg.EmbeddingDim,
		Logger:  logger,
	})
	if err := embedder.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding provider unreachable: %w", err)
	}

	data, err := corpus.Load(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	batches := map[string][]embedEntry{
		"jobs":     jobEntries(data.Jobs),
		"courses":  courseEntries(data.Courses),
		"demo_cvs": demoCVEntries(data.DemoCVs),
	}

	for _, name := range []string{"jobs", "courses", "demo_cvs"} {
		store := embedding.NewStore(filepath.Join(cfg.EmbeddingsDir, name+".json"), cfg.EmbeddingDim)
		if err := embedBatch(ctx, embedder, store, batches[name]); err != nil {
			return fmt.Errorf("failed to embed %s: %w", name, err)
		}
		logger.Info("embeddings written",
			zap.String("corpus", name),
			zap.Int("count", store.Len()),
			zap.Int("dim", store.Dim()))
	}

	return nil
}

func jobEntries(jobs []corpus.Job) []embedEntry {
	out := make([]embedEntry, 0, len(jobs))
	for i := range jobs {
		out = append(out, embedEntry{jobs[i].JobID, jobs[i].EmbeddingText()})
	}
	return out
}

func courseEntries(courses []corpus.Course) []embedEntry {
	out := make([]embedEntry, 0, len(courses))
	for i := range courses {
		out = append(out, embedEntry{courses[i].CourseID, courses[i].EmbeddingText()})
	}
	return out
}

func demoCVEntries(cvs []corpus.DemoCV) []embedEntry {
	out := make([]embedEntry, 0, len(cvs))
	for i := range cvs {
		out = append(out, embedEntry{cvs[i].CVID, cvs[i].EmbeddingText()})
	}
	return out
}

func embedBatch(ctx context.Context, embedder *embedding.Embedder, store *embedding.Store, entries []embedEntry) error {
	for _, e := range entries {
		vec, err := embedder.Embed(ctx, e.Text)
		if err != nil {
			return fmt.Errorf("embed %s: %w", e.ID, err)
		}
		if err := store.Append(e.ID, vec); err != nil {
			return fmt.Errorf("append %s: %w", e.ID, err)
		}
	}
	return store.Save()
}
