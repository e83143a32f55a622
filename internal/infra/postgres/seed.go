package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"storefront-quiz-service/internal/domain"
)

// productRow and questionRow map the dataset tables for bun.
type productRow struct {
	bun.BaseModel `bun:"table:products"`

	ID   int             `bun:"id,pk"`
	Data json.RawMessage `bun:"data,type:jsonb"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID   int64           `bun:"id,pk,autoincrement"`
	Data json.RawMessage `bun:"data,type:jsonb"`
}

// Seed replaces the stored datasets in one transaction. Products upsert by id
// and any product missing from the new set is deleted; questions are rewritten
// in the given order. An empty set leaves that table untouched.
func Seed(ctx context.Context, db *bun.DB, products []domain.Product, questions []domain.Question) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(products) > 0 {
			rows := make([]productRow, 0, len(products))
			for _, p := range products {
				raw, err := json.Marshal(p)
				if err != nil {
					return fmt.Errorf("encode product %d: %w", p.ID, err)
				}
				rows = append(rows, productRow{ID: p.ID, Data: raw})
			}
			if _, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("data = EXCLUDED.data").
				Exec(ctx); err != nil {
				return fmt.Errorf("insert products: %w", err)
			}
			ids := make([]int, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.ID)
			}
			if _, err := tx.NewDelete().Model((*productRow)(nil)).
				Where("id NOT IN (?)", bun.In(ids)).
				Exec(ctx); err != nil {
				return fmt.Errorf("delete stale products: %w", err)
			}
		}

		if len(questions) > 0 {
			if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("TRUE").Exec(ctx); err != nil {
				return fmt.Errorf("clear questions: %w", err)
			}
			rows := make([]questionRow, 0, len(questions))
			for _, q := range questions {
				raw, err := json.Marshal(q)
				if err != nil {
					return fmt.Errorf("encode question: %w", err)
				}
				rows = append(rows, questionRow{Data: raw})
			}
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("insert questions: %w", err)
			}
		}
		return nil
	})
}
