package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"millionaire-service/internal/domain"
)

// CatalogLoader fetches question content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuestions(ctx context.Context, level int) ([]domain.Question, error)
}

// Catalog caches per-level question pools with TTL to avoid repeated DB hits.
type Catalog struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedLevel
}

type cachedLevel struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewCatalog(loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int]cachedLevel),
	}
}

func (c *Catalog) QuestionsAtLevel(ctx context.Context, level int) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[level]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.Itoa(level), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[level]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.LoadQuestions(ctx, level)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[level] = cachedLevel{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader is a simple loader backed by an in-memory pool (useful for tests/demos).
type StaticCatalogLoader struct {
	byLevel map[int][]domain.Question
}

func NewStaticCatalogLoader(questions []domain.Question) *StaticCatalogLoader {
	byLevel := make(map[int][]domain.Question)
	for _, q := range questions {
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}
	return &StaticCatalogLoader{byLevel: byLevel}
}

func (l *StaticCatalogLoader) LoadQuestions(_ context.Context, level int) ([]domain.Question, error) {
	return l.byLevel[level], nil
}
