package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"millionaire-service/internal/domain"
)

// CatalogLoader fetches question content from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadQuestions(ctx context.Context, level int) ([]domain.Question, error)
}

// Catalog caches per-level question pools in Redis and falls back to a loader
// on cache miss. Pools are stored as: SET catalog:level:{level} {json array}
type Catalog struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalog(client *redis.Client, loader CatalogLoader, ttl time.Duration) *Catalog {
	return &Catalog{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *Catalog) QuestionsAtLevel(ctx context.Context, level int) ([]domain.Question, error) {
	key := c.levelKey(level)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		return decodeQuestions(raw)
	}

	result, err, _ := c.sf.Do(strconv.Itoa(level), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return decodeQuestions(raw)
		}

		questions, err := c.loader.LoadQuestions(ctx, level)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("marshal questions: %w", err)
		}
		// best-effort cache fill
		_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *Catalog) levelKey(level int) string {
	return "catalog:level:" + strconv.Itoa(level)
}

func decodeQuestions(raw []byte) ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal cached questions: %w", err)
	}
	return questions, nil
}

func (c *Catalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
