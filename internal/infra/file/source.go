// Package file loads JSON datasets from disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storefront-quiz-service/internal/domain"
)

// Source reads the product and question documents from local files.
type Source struct {
	productsPath  string
	questionsPath string
}

func NewSource(productsPath, questionsPath string) *Source {
	return &Source{productsPath: productsPath, questionsPath: questionsPath}
}

func (s *Source) LoadProducts(_ context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := readJSON(s.productsPath, &products); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products, nil
}

func (s *Source) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	if err := readJSON(s.questionsPath, &questions); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}

func readJSON(path string, out any) error {
	if path == "" {
		return fmt.Errorf("no path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
