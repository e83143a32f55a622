package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/domain"
)

var errNoSource = errors.New("dataset source not configured")

// DatasetCache caches datasets in Redis (one JSON string per dataset) and falls
// back to the wrapped source on a miss, so instances share a single fetch.
//
//	SET dataset:products  [...]  EX ttl
//	SET dataset:questions [...]  EX ttl
type DatasetCache struct {
	client    *redis.Client
	products  app.ProductSource
	questions app.QuestionSource
	ttl       time.Duration
	sf        singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewDatasetCache(client *redis.Client, products app.ProductSource, questions app.QuestionSource, ttl time.Duration) *DatasetCache {
	return &DatasetCache{
		client:    client,
		products:  products,
		questions: questions,
		ttl:       ttl,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *DatasetCache) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	if c.products == nil {
		return nil, errNoSource
	}
	return cached(c, ctx, "products", c.products.LoadProducts)
}

func (c *DatasetCache) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	if c.questions == nil {
		return nil, errNoSource
	}
	return cached(c, ctx, "questions", c.questions.LoadQuestions)
}

func cached[T any](c *DatasetCache, ctx context.Context, name string, load func(context.Context) ([]T, error)) ([]T, error) {
	key := datasetKey(name)
	if records, ok := readCache[T](ctx, c.client, key); ok {
		return records, nil
	}

	result, err, _ := c.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if records, ok := readCache[T](ctx, c.client, key); ok {
			return records, nil
		}

		records, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(records); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]T), nil
}

// readCache treats unreadable entries as misses.
func readCache[T any](ctx context.Context, client *redis.Client, key string) ([]T, bool) {
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

func datasetKey(name string) string {
	return "dataset:" + name
}

func (c *DatasetCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
