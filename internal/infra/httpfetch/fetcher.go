// Package httpfetch loads static JSON datasets over HTTP.
package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-quiz-service/internal/domain"
)

// maxBody bounds a dataset document.
const maxBody = 8 << 20

// Source fetches the product and question documents once per call. Either URL
// may be empty when that dataset comes from elsewhere.
type Source struct {
	client       *http.Client
	productsURL  string
	questionsURL string
}

func NewSource(client *http.Client, productsURL, questionsURL string) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{client: client, productsURL: productsURL, questionsURL: questionsURL}
}

func (s *Source) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.fetch(ctx, s.productsURL, &products); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func (s *Source) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	if err := s.fetch(ctx, s.questionsURL, &questions); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return questions, nil
}

// fetch GETs url and decodes a JSON array. There are no retries; a failed
// fetch leaves the dataset empty until restart.
func (s *Source) fetch(ctx context.Context, url string, out any) error {
	if url == "" {
		return fmt.Errorf("no url configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
