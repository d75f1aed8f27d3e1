package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	providerRepo "doerhub/database/repository/provider"
	userRepo "doerhub/database/repository/user"
	"doerhub/models"
	"doerhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrAuthFailed is returned for any token that cannot be resolved to an
// account. Callers map it to a 401 without leaking which step failed.
var ErrAuthFailed = errors.New("authentication failed")

// ErrTokenNotCached reports an auth cache miss.
var ErrTokenNotCached = errors.New("token hash not cached")

// authCacheTTL bounds how long a resolved token hash stays cached.
const authCacheTTL = 15 * time.Minute

// Gate resolves bearer tokens to principals.
type Gate interface {
	// Resolve validates a raw Authorization value (with or without the
	// "Bearer " prefix) and returns the authenticated principal.
	Resolve(ctx context.Context, token string) (*models.Principal, error)
}

// TokenCache holds the current token hash per user id. Get returns
// ErrTokenNotCached on a miss.
type TokenCache interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, tokenHash string) error
}

// RedisTokenCache backs TokenCache with the dedicated auth redis database.
type RedisTokenCache struct {
	Client *redis.Client
}

func (c *RedisTokenCache) Get(ctx context.Context, userID string) (string, error) {
	val, err := c.Client.Get(ctx, utils.AuthCachePrefix+userID).Result()
	if err == redis.Nil {
		return "", ErrTokenNotCached
	}
	return val, err
}

func (c *RedisTokenCache) Set(ctx context.Context, userID, tokenHash string) error {
	return c.Client.Set(ctx, utils.AuthCachePrefix+userID, tokenHash, authCacheTTL).Err()
}

// DefaultGate validates JWTs, checks the token hash against the auth cache
// with a database fallback, and attaches the provider profile when one exists.
type DefaultGate struct {
	Users     userRepo.UserRepository
	Providers providerRepo.ProviderRepository
	Cache     TokenCache
}

func (g *DefaultGate) Resolve(ctx context.Context, token string) (*models.Principal, error) {
	logger := utils.GetLogger()

	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrAuthFailed
	}

	userID, err := utils.ExtractIDFromToken(token)
	if err != nil {
		logger.Debug("token validation failed", zap.Error(err))
		return nil, ErrAuthFailed
	}

	tokenHash := utils.HashToken(token)
	if err := g.checkTokenHash(ctx, userID, tokenHash); err != nil {
		return nil, err
	}

	user, err := g.Users.GetByID(userID)
	if err != nil {
		return nil, ErrAuthFailed
	}

	principal := &models.Principal{
		UserID:   user.ID,
		Username: user.Username,
	}
	if provider, err := g.Providers.GetByUserID(user.ID); err == nil {
		principal.ProviderID = provider.ID
	}
	return principal, nil
}

// checkTokenHash verifies the presented token is the account's current one.
// The auth cache is consulted first; on a miss the stored hash is loaded and
// the cache repopulated.
func (g *DefaultGate) checkTokenHash(ctx context.Context, userID, tokenHash string) error {
	cached, err := g.Cache.Get(ctx, userID)
	if err == nil {
		if cached == tokenHash {
			return nil
		}
		return ErrAuthFailed
	}
	if !errors.Is(err, ErrTokenNotCached) {
		utils.GetLogger().Warn("auth cache lookup failed", zap.Error(err))
	}

	user, err := g.Users.GetByTokenHash(tokenHash)
	if err != nil || user.ID != userID {
		return ErrAuthFailed
	}
	if err := g.Cache.Set(ctx, userID, tokenHash); err != nil {
		utils.GetLogger().Warn("auth cache store failed", zap.Error(err))
	}
	return nil
}
