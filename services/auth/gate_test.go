package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	providerRepo "doerhub/database/repository/provider"
	"doerhub/models"
	"doerhub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokenCache struct {
	entries map[string]string
	getErr  error
}

func newMemTokenCache() *memTokenCache {
	return &memTokenCache{entries: make(map[string]string)}
}

func (c *memTokenCache) Get(ctx context.Context, userID string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	hash, ok := c.entries[userID]
	if !ok {
		return "", ErrTokenNotCached
	}
	return hash, nil
}

func (c *memTokenCache) Set(ctx context.Context, userID, tokenHash string) error {
	c.entries[userID] = tokenHash
	return nil
}

type memProviderRepo struct {
	providers map[string]*models.Provider
}

func (r *memProviderRepo) GetByID(id string) (*models.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, providerRepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProviderRepo) GetByUserID(userID string) (*models.Provider, error) {
	for _, p := range r.providers {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, providerRepo.ErrNotFound
}

func (r *memProviderRepo) GetByCategory(categoryID string, verifiedOnly bool) ([]models.Provider, error) {
	return nil, nil
}

func (r *memProviderRepo) Create(p *models.Provider) error                  { r.providers[p.ID] = p; return nil }
func (r *memProviderRepo) Update(p *models.Provider) error                  { r.providers[p.ID] = p; return nil }
func (r *memProviderRepo) Delete(id string) error                           { delete(r.providers, id); return nil }
func (r *memProviderRepo) SetOnline(id string, online bool) error           { return nil }
func (r *memProviderRepo) UpdateLocation(id string, lat, lon float64) error { return nil }
func (r *memProviderRepo) ClearLocation(id string) error                    { return nil }
func (r *memProviderRepo) SetCategory(id, categoryID string) error          { return nil }

func newTestGate() (*DefaultGate, *memUserRepo, *memProviderRepo, *memTokenCache) {
	users := newMemUserRepo()
	providers := &memProviderRepo{providers: make(map[string]*models.Provider)}
	cache := newMemTokenCache()
	gate := &DefaultGate{Users: users, Providers: providers, Cache: cache}
	return gate, users, providers, cache
}

// seedSession stores a user whose current token hash matches the returned token.
func seedSession(t *testing.T, users *memUserRepo, userID string) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, userID+"@example.com", time.Hour)
	require.NoError(t, err)
	users.users[userID] = &models.User{
		ID:        userID,
		Username:  "user-" + userID,
		TokenHash: utils.HashToken(token),
	}
	return token
}

func TestResolveCacheHit(t *testing.T) {
	gate, users, providers, cache := newTestGate()
	token := seedSession(t, users, "u1")
	cache.entries["u1"] = utils.HashToken(token)
	// An unreadable stored hash proves the cached one was used.
	users.users["u1"].TokenHash = "rotated-out-from-under-the-cache"
	providers.providers["p1"] = &models.Provider{ID: "p1", UserID: "u1"}

	principal, err := gate.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)
	assert.Equal(t, "user-u1", principal.Username)
	assert.Equal(t, "p1", principal.ProviderID)
}

func TestResolveCachedHashMismatch(t *testing.T) {
	gate, users, _, cache := newTestGate()
	token := seedSession(t, users, "u1")

	// The cache says the account rotated to a different token. Even though
	// the stored hash still matches, the presented token is refused.
	cache.entries["u1"] = utils.HashToken("a-fresher-token")

	_, err := gate.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestResolveCacheMissFallsBackToStore(t *testing.T) {
	gate, users, _, cache := newTestGate()
	token := seedSession(t, users, "u1")

	principal, err := gate.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)
	assert.Empty(t, principal.ProviderID)

	// The miss repopulated the cache.
	assert.Equal(t, utils.HashToken(token), cache.entries["u1"])
}

func TestResolveRejectsTokenOwnedByAnotherUser(t *testing.T) {
	gate, users, _, _ := newTestGate()

	// A token whose subject is u1 but whose hash is stored on u2's account.
	token, err := utils.GenerateToken("u1", "u1@example.com", time.Hour)
	require.NoError(t, err)
	users.users["u1"] = &models.User{ID: "u1", Username: "user-u1"}
	users.users["u2"] = &models.User{ID: "u2", Username: "user-u2", TokenHash: utils.HashToken(token)}

	_, err = gate.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestResolveBearerPrefixAndBadTokens(t *testing.T) {
	gate, users, _, _ := newTestGate()
	token := seedSession(t, users, "u1")

	principal, err := gate.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)

	_, err = gate.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = gate.Resolve(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestResolveCacheOutageFallsBackToStore(t *testing.T) {
	gate, users, _, cache := newTestGate()
	token := seedSession(t, users, "u1")
	cache.getErr = errors.New("connection refused")

	principal, err := gate.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)
}
