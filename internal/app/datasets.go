package app

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/metrics"
)

// Datasets wires the loads of the product catalog and the question bank, at
// startup and on reload. A failed load is logged and keeps the previous set,
// which is empty until a load succeeds. Invalid records are dropped.
type Datasets struct {
	Catalog   *catalog.Store
	Questions *QuestionBank

	ProductSource  ProductSource
	QuestionSource QuestionSource
	Logger         *zap.Logger
}

// Load fetches both sets concurrently and blocks until both attempts finish.
// It never fails: callers run it in the background and the apps stay inert
// for whichever set did not load.
func (d *Datasets) Load(ctx context.Context) {
	var g errgroup.Group

	if d.ProductSource != nil {
		g.Go(func() error {
			products, err := d.ProductSource.LoadProducts(ctx)
			if err != nil {
				metrics.DatasetLoadFailures.WithLabelValues("products").Inc()
				d.Logger.Error("failed to load products", zap.Error(err))
				return nil
			}
			products = validProducts(products, d.Logger)
			d.Catalog.Set(products)
			metrics.DatasetSize.WithLabelValues("products").Set(float64(len(products)))
			d.Logger.Info("products loaded", zap.Int("count", len(products)))
			return nil
		})
	}

	if d.QuestionSource != nil {
		g.Go(func() error {
			questions, err := d.QuestionSource.LoadQuestions(ctx)
			if err != nil {
				metrics.DatasetLoadFailures.WithLabelValues("questions").Inc()
				d.Logger.Error("failed to load questions", zap.Error(err))
				return nil
			}
			questions = validQuestions(questions, d.Logger)
			d.Questions.Set(questions)
			metrics.DatasetSize.WithLabelValues("questions").Set(float64(len(questions)))
			d.Logger.Info("questions loaded", zap.Int("count", len(questions)))
			return nil
		})
	}

	_ = g.Wait()
}

// validProducts drops products that fail validation or repeat an earlier id.
func validProducts(products []domain.Product, logger *zap.Logger) []domain.Product {
	seen := make(map[int]struct{}, len(products))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			metrics.DatasetInvalidRecords.WithLabelValues("products").Inc()
			logger.Warn("dropping duplicate product", zap.Int("id", p.ID))
			continue
		}
		if err := p.Validate(); err != nil {
			metrics.DatasetInvalidRecords.WithLabelValues("products").Inc()
			logger.Warn("dropping product", zap.Error(err))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

func validQuestions(questions []domain.Question, logger *zap.Logger) []domain.Question {
	out := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			metrics.DatasetInvalidRecords.WithLabelValues("questions").Inc()
			logger.Warn("dropping question", zap.Error(err))
			continue
		}
		out = append(out, q)
	}
	return out
}
