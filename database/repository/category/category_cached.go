package categoryRepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"doerhub/models"
	"doerhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss reports that a key is absent from the list cache.
var ErrCacheMiss = errors.New("cache miss")

// listCacheTTL bounds staleness if an invalidation is ever lost.
const listCacheTTL = 10 * time.Minute

const listCachePrefix = "categories:"

// ListCache is the cache surface the cached repository reads through.
type ListCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisListCache backs ListCache with the shared redis cache client.
type RedisListCache struct {
	Client *redis.Client
}

func (c *RedisListCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return val, err
}

func (c *RedisListCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisListCache) Del(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// CachedCategoryRepo serves List from the cache and falls back to the backing
// repository on a miss. Categories change rarely and the list endpoint is the
// hottest unauthenticated read, so the whole result is cached per type filter
// and invalidated on Create. Cache failures degrade to the backing store.
type CachedCategoryRepo struct {
	next  CategoryRepository
	cache ListCache
}

// NewCachedCategoryRepo wraps a CategoryRepository with a read-through list cache.
func NewCachedCategoryRepo(next CategoryRepository, cache ListCache) CategoryRepository {
	return &CachedCategoryRepo{next: next, cache: cache}
}

func (r *CachedCategoryRepo) GetByID(id string) (*models.ServiceCategory, error) {
	return r.next.GetByID(id)
}

func (r *CachedCategoryRepo) List(categoryType string) ([]models.ServiceCategory, error) {
	ctx, cancel := newContext(2 * time.Second)
	defer cancel()
	key := listKey(categoryType)

	cached, err := r.cache.Get(ctx, key)
	if err == nil {
		var categories []models.ServiceCategory
		if jsonErr := json.Unmarshal([]byte(cached), &categories); jsonErr == nil {
			return categories, nil
		}
		// An undecodable entry gets overwritten below.
	} else if !errors.Is(err, ErrCacheMiss) {
		utils.GetLogger().Warn("category cache lookup failed", zap.Error(err))
	}

	categories, err := r.next.List(categoryType)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(categories); jsonErr == nil {
		if err := r.cache.Set(ctx, key, string(encoded), listCacheTTL); err != nil {
			utils.GetLogger().Warn("category cache store failed", zap.Error(err))
		}
	}
	return categories, nil
}

func (r *CachedCategoryRepo) Create(category *models.ServiceCategory) error {
	if err := r.next.Create(category); err != nil {
		return err
	}
	ctx, cancel := newContext(2 * time.Second)
	defer cancel()
	if err := r.cache.Del(ctx, listKey(""), listKey(category.CategoryType)); err != nil {
		utils.GetLogger().Warn("category cache invalidation failed", zap.Error(err))
	}
	return nil
}

func listKey(categoryType string) string {
	if categoryType == "" {
		return listCachePrefix + "all"
	}
	return listCachePrefix + categoryType
}
