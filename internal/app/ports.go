package app

import (
	"context"

	"storefront-quiz-service/internal/domain"
)

// KeyValueStore abstracts snapshot persistence (in-memory, Redis, etc).
// Get returns domain.ErrKeyNotFound when the key is absent.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Product(id int) (domain.Product, bool)
}

// ProductSource loads the full product set.
type ProductSource interface {
	LoadProducts(ctx context.Context) ([]domain.Product, error)
}

// QuestionSource loads the full question bank.
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// CartKey is the storage key of a client's cart snapshot.
func CartKey(prefix, clientID string) string {
	return prefix + "storefront:" + clientID + ":cart"
}

// LeaderboardKey is the storage key of a client's leaderboard snapshot.
func LeaderboardKey(prefix, clientID string) string {
	return prefix + "quiz:" + clientID + ":scores"
}
