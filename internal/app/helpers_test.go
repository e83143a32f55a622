package app_test

import (
	"context"
	"errors"
	"math/rand"

	"go.uber.org/zap"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/catalog"
	"storefront-quiz-service/internal/domain"
	"storefront-quiz-service/internal/infra/memory"
)

var errStorageDown = errors.New("storage down")

// failingKV wraps a store and fails writes while down is set.
type failingKV struct {
	*memory.KVStore
	down bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.down {
		return errStorageDown
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *failingKV) Delete(ctx context.Context, key string) error {
	if f.down {
		return errStorageDown
	}
	return f.KVStore.Delete(ctx, key)
}

func newCatalogStore() *catalog.Store {
	store := catalog.NewStore()
	store.Set(sampleProducts())
	return store
}

func newBank(questions []domain.Question) *app.QuestionBank {
	bank := app.NewQuestionBank()
	bank.Set(questions)
	return bank
}

func newSession(bank *app.QuestionBank, board *app.Leaderboard) *app.QuizSession {
	return app.NewQuizSessionWithRand(bank, board, rand.New(rand.NewSource(1)))
}

func newLeaderboard(kv app.KeyValueStore) *app.Leaderboard {
	return app.NewLeaderboard(kv, app.LeaderboardKey("", "c1"), zap.NewNop())
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Floor Lamp", Description: "Tall brass lamp", Price: 89.5},
		{ID: 2, Name: "Mug", Description: "Ceramic coffee mug", Price: 12},
		{ID: 3, Name: "Desk Lamp", Description: "Adjustable desk light", Price: 30, Image: "img/desk.png"},
		{ID: 4, Name: "Notebook", Description: "Dotted A5 notebook", Price: 7.25},
		{ID: 5, Name: "Pen Set", Description: "Three gel pens", Price: 9},
		{ID: 6, Name: "Backpack", Description: "Water resistant", Price: 64},
		{ID: 7, Name: "Poster", Description: "Street at night", Price: 19},
	}
}

func sampleQuestions(n int) []domain.Question {
	symbols := []string{"H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne", "Na", "Mg"}
	questions := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		sym := symbols[i%len(symbols)]
		questions = append(questions, domain.Question{
			Question: "Which symbol is element " + sym + "?",
			Choices:  []string{sym, "X" + sym},
			Answer:   sym,
		})
	}
	return questions
}
