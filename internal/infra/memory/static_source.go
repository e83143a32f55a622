package memory

import (
	"context"

	"storefront-quiz-service/internal/domain"
)

// StaticSource serves fixed datasets (useful for tests/demos).
type StaticSource struct {
	products  []domain.Product
	questions []domain.Question
}

func NewStaticSource(products []domain.Product, questions []domain.Question) *StaticSource {
	return &StaticSource{products: products, questions: questions}
}

func (s *StaticSource) LoadProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *StaticSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}
