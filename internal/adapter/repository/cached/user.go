package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-auth-service/internal/adapter/cache"
	domain "user-auth-service/internal/domain/user"
	"user-auth-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
// Only GetByID is cached: email lookups need the password hash, which the
// cache never holds.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	// Try to get from cache first
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cachedUser != nil {
			r.log.Debug("user retrieved from cache", zap.String("id", id))
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do("user:"+id, func() (any, error) {
		// Not found and store errors are returned uncached
		u, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		// Populate the cache; a failed write only costs the next lookup
		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", id), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers sharing the flight get the same value
	return result.(*domain.User), nil
}

// GetByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}
