package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"storefront-quiz-service/internal/config"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/infra/file"
	pgsource "storefront-quiz-service/internal/infra/postgres"
	"storefront-quiz-service/internal/logging"
)

// NewSeedCmd loads the configured JSON datasets into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var productsPath, questionsPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load product and question JSON files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, productsPath, questionsPath)
		},
	}
	cmd.Flags().StringVar(&productsPath, "products", "", "products JSON file (defaults to catalog.file)")
	cmd.Flags().StringVar(&questionsPath, "questions", "", "questions JSON file (defaults to quiz.file)")
	return cmd
}

func runSeed(ctx context.Context, configPath, productsPath, questionsPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if productsPath == "" {
		productsPath = cfg.Catalog.File
	}
	if questionsPath == "" {
		questionsPath = cfg.Quiz.File
	}

	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}

	source := file.NewSource(productsPath, questionsPath)
	var products []domain.Product
	if productsPath != "" {
		if products, err = source.LoadProducts(ctx); err != nil {
			return err
		}
	}
	var questions []domain.Question
	if questionsPath != "" {
		if questions, err = source.LoadQuestions(ctx); err != nil {
			return err
		}
	}

	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pgsource.Seed(ctx, db, products, questions); err != nil {
		return err
	}
	logger.Info("datasets seeded", zap.Int("products", len(products)), zap.Int("questions", len(questions)))
	return nil
}
