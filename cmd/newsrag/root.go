package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"news_rag/internal/app"
	"news_rag/internal/config"
)

var (
	cfg config.Config
	log *zap.SugaredLogger

	debug           bool
	completionModel string
	embeddingModel  string
	indexDir        string
)

var rootCmd = &cobra.Command{
	Use:   "newsrag",
	Short: "Question answering over news articles",
	Long: `newsrag fetches news articles, splits them into token-bounded chunks,
indexes them in a local vector store and answers questions from the
retrieved chunks with a language model.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose development logging")
	rootCmd.PersistentFlags().StringVar(&completionModel, "completion-model", "", "completion model (overrides COMPLETION_MODEL)")
	rootCmd.PersistentFlags().StringVar(&embeddingModel, "embedding-model", "", "embedding model (overrides EMBEDDING_MODEL)")
	rootCmd.PersistentFlags().StringVar(&indexDir, "index-dir", "", "vector index directory (overrides INDEX_DIR)")
}

// setup loads .env and the environment, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	if err := config.Init(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if completionModel != "" {
		cfg.CompletionModel = completionModel
	}
	if embeddingModel != "" {
		cfg.EmbeddingModel = embeddingModel
	}
	if indexDir != "" {
		cfg.IndexDir = indexDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, debug)
	if err != nil {
		return err
	}
	log = logger.Sugar()
	log.Debugw("configuration loaded",
		"completion_model", cfg.CompletionModel,
		"embedding_model", cfg.EmbeddingModel,
		"index_dir", cfg.IndexDir)
	return nil
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.Encoding = "console"
	zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return zc.Build()
}

func newApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.New(cmd.Context(), &cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	return a, nil
}
