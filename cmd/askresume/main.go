package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/jhjeon/askresume/internal/ai"
	"github.com/jhjeon/askresume/internal/cache"
	"github.com/jhjeon/askresume/internal/config"
	"github.com/jhjeon/askresume/internal/corpus"
	"github.com/jhjeon/askresume/internal/db"
	"github.com/jhjeon/askresume/internal/handler"
	"github.com/jhjeon/askresume/internal/index"
	"github.com/jhjeon/askresume/internal/job"
	"github.com/jhjeon/askresume/internal/keysource"
	"github.com/jhjeon/askresume/internal/middleware"
	"github.com/jhjeon/askresume/internal/model"
	"github.com/jhjeon/askresume/internal/rag"
	"github.com/jhjeon/askresume/internal/schedule"
	"github.com/jhjeon/askresume/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "askresume",
		Short: "resume question answering server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the answer server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")

	var embedInput, embedOutput string
	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "fill missing corpus embeddings and write the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runEmbed(cfg, embedInput, embedOutput)
		},
	}
	embedCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	embedCmd.Flags().StringVar(&embedInput, "input", "", "corpus file to embed")
	embedCmd.Flags().StringVar(&embedOutput, "output", "", "output file (default <input>_emb.json)")

	rootCmd.AddCommand(runCmd, embedCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", path))
	return cfg, nil
}

func buildAI(ctx context.Context, cfg *config.Config) (ai.IGenerator, ai.IEmbedder, error) {
	source, err := keysource.New(cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("init api key source: %w", err)
	}
	apiKey, err := source.Fetch(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch api key: %w", err)
	}
	provider, err := ai.NewProvider(cfg.AI.Provider, map[string]interface{}{
		"api_key":     apiKey,
		"base_url":    cfg.AI.BaseURL,
		"temperature": cfg.AI.Temperature,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init ai provider: %w", err)
	}
	gen := ai.NewGenerator(provider, cfg.AI.Model)
	embedder := ai.WrapRetryToEmbedder(
		ai.NewEmbedder(provider, cfg.AI.EmbedModel),
		ai.DefaultEmbedRetryPolicy(),
	)
	return gen, embedder, nil
}

func runServer(cfg *config.Config) error {
	ctx := context.Background()
	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("locale", cfg.Locale),
		zap.String("index", cfg.Index.Type),
		zap.String("retriever", cfg.Retriever.Type),
		zap.String("cache", cfg.Cache.Type),
	)

	gen, embedder, err := buildAI(ctx, cfg)
	if err != nil {
		return err
	}

	var dbConn *sqlx.DB
	if cfg.NeedsDatabase() {
		dbConn, err = db.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if err := db.ApplyMigrations(dbConn); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	idx, err := index.New(cfg.Index, index.Args{DB: dbConn, Dimension: cfg.Corpus.Dimension})
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	answerCache, err := cache.New(cfg.Cache, cache.Args{DB: dbConn})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	prompts := rag.PromptsFor(cfg.Locale, cfg.SubjectName)
	retriever, err := rag.NewRetriever(cfg.Retriever, embedder, gen, idx, prompts)
	if err != nil {
		return fmt.Errorf("init retriever: %w", err)
	}
	answers := service.NewAnswerService(service.Options{
		Gate:          rag.NewRelevanceGate(gen, prompts),
		Retriever:     retriever,
		Generator:     rag.NewAnswerGenerator(gen, prompts),
		Cache:         answerCache,
		Prompts:       prompts,
		SkipCacheRead: cfg.Cache.SkipRead,
		Initialize: func(ctx context.Context) error {
			passages, err := corpus.Load(cfg.Corpus.Path, cfg.Corpus.Dimension)
			if err != nil {
				return err
			}
			return idx.Load(ctx, passages)
		},
	})
	// Warm start; a failure here is retriable per request and by the warmup
	// job, not fatal.
	if err := answers.EnsureReady(ctx); err != nil {
		logutil.GetLogger(ctx).Warn("cold start initialization failed, will retry", zap.Error(err))
	}

	scheduler := schedule.NewScheduler()
	if err := scheduler.Add(job.NewWarmupJob(answers), cfg.WarmupSpec); err != nil {
		return fmt.Errorf("schedule warmup: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			logutil.GetLogger(c.Request.Context()).Error("panic recovered", zap.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}),
		middleware.CORS(cfg.WebOrigin),
		gzip.Gzip(gzip.DefaultCompression),
	)
	handler.RegisterRoutes(engine.Group("/api/v1"), handler.RouterDeps{
		Ask: handler.NewAskHandler(answers),
	})

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: engine}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(signalCtx)
	defer scheduler.Stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(ctx).Error("server error", zap.Error(err))
		}
	}()

	<-signalCtx.Done()
	logutil.GetLogger(ctx).Info("server stopping...")
	return server.Shutdown(context.Background())
}

func runEmbed(cfg *config.Config, input, output string) error {
	ctx := context.Background()
	if input == "" {
		input = cfg.Corpus.Path
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "_emb.json"
	}

	_, embedder, err := buildAI(ctx, cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read corpus: %w", err)
	}
	var passages []model.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return fmt.Errorf("decode corpus: %w", err)
	}

	logger := logutil.GetLogger(ctx)
	for i := range passages {
		p := &passages[i]
		if len(p.Embedding) > 0 {
			logger.Info("embedding exists, skipping", zap.Int("entry", i))
			continue
		}
		emb, err := embedder.Embed(ctx, p.Text, "RETRIEVAL_DOCUMENT")
		if err != nil {
			// Keep going; the loader treats a missing embedding as a zero
			// vector and the next run retries it.
			logger.Error("embedding failed", zap.Int("entry", i), zap.Error(err))
			p.Embedding = []float32{}
			continue
		}
		p.Embedding = emb
		logger.Info("embedded", zap.Int("entry", i), zap.Int("dimension", len(emb)))
	}

	if err := corpus.Save(output, passages); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	logger.Info("corpus written", zap.String("output", output), zap.Int("entries", len(passages)))
	return nil
}
