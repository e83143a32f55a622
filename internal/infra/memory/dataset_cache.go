package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"storefront-quiz-service/internal/app"
	"storefront-quiz-service/internal/domain"
)

var errNoSource = errors.New("dataset source not configured")

// DatasetCache caches loaded datasets with TTL, so a reload inside the TTL
// does not hit the upstream source.
// A non-positive TTL disables caching but still collapses concurrent loads.
type DatasetCache struct {
	products  app.ProductSource
	questions app.QuestionSource
	ttl       time.Duration
	clock     func() time.Time
	sf        singleflight.Group
	rnd       *rand.Rand
	rndMu     sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedDataset
}

type cachedDataset struct {
	value     any
	expiresAt time.Time
}

func NewDatasetCache(products app.ProductSource, questions app.QuestionSource, ttl time.Duration) *DatasetCache {
	return &DatasetCache{
		products:  products,
		questions: questions,
		ttl:       ttl,
		clock:     time.Now,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:     make(map[string]cachedDataset),
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
	if v, ok := c.lookup(name); ok {
		return cloneRecords(v.([]T)), nil
	}

	result, err, _ := c.sf.Do(name, func() (interface{}, error) {
		if v, ok := c.lookup(name); ok {
			return v, nil
		}

		records, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[name] = cachedDataset{
			value:     records,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneRecords(result.([]T)), nil
}

func cloneRecords[T any](records []T) []T {
	out := make([]T, len(records))
	copy(out, records)
	return out
}

func (c *DatasetCache) lookup(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[name]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return nil, false
	}
	return entry.value, true
}

func (c *DatasetCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
