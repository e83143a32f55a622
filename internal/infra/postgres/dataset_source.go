package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"storefront-quiz-service/internal/domain"
)

// DatasetSource loads products and questions stored as JSONB rows.
type DatasetSource struct {
	pool *pgxpool.Pool
}

func NewDatasetSource(pool *pgxpool.Pool) *DatasetSource {
	return &DatasetSource{pool: pool}
}

func (s *DatasetSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	return loadRows[domain.Product](ctx, s.pool, `SELECT data FROM products ORDER BY id`)
}

func (s *DatasetSource) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	return loadRows[domain.Question](ctx, s.pool, `SELECT data FROM questions ORDER BY id`)
}

func loadRows[T any](ctx context.Context, pool *pgxpool.Pool, query string) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("unmarshal dataset row: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return out, nil
}
