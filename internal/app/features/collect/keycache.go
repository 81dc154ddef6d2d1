// internal/app/features/collect/keycache.go
package collect

import (
	"context"
	"errors"
	"time"

	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	"github.com/jellydator/ttlcache/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LookupFunc resolves a tracking key to its project, returning
// projectstore.ErrNotFound for unknown keys.
type LookupFunc func(ctx context.Context, key string) (primitive.ObjectID, error)

// KeyCache remembers tracking-key lookups for a while. Unknown keys are
// cached as well, as NilObjectID, so a stale snippet cannot hammer the
// projects collection.
type KeyCache struct {
	lookup LookupFunc
	cache  *ttlcache.Cache[string, primitive.ObjectID]
}

const keyCacheCapacity = 10_000

// NewKeyCache starts a cache whose entries live for ttl. Call Stop when done.
func NewKeyCache(lookup LookupFunc, ttl time.Duration) *KeyCache {
	c := ttlcache.New[string, primitive.ObjectID](
		ttlcache.WithTTL[string, primitive.ObjectID](ttl),
		ttlcache.WithCapacity[string, primitive.ObjectID](keyCacheCapacity),
		ttlcache.WithDisableTouchOnHit[string, primitive.ObjectID](),
	)
	go c.Start()
	return &KeyCache{lookup: lookup, cache: c}
}

// StoreLookup adapts a project store to LookupFunc.
func StoreLookup(s *projectstore.Store) LookupFunc {
	return func(ctx context.Context, key string) (primitive.ObjectID, error) {
		p, err := s.GetByTrackingKey(ctx, key)
		if err != nil {
			return primitive.NilObjectID, err
		}
		return p.ID, nil
	}
}

// Resolve returns the project id for key. ok is false when no project has
// that key.
func (k *KeyCache) Resolve(ctx context.Context, key string) (id primitive.ObjectID, ok bool, err error) {
	if item := k.cache.Get(key); item != nil {
		id = item.Value()
		return id, !id.IsZero(), nil
	}

	id, err = k.lookup(ctx, key)
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		k.cache.Set(key, primitive.NilObjectID, ttlcache.DefaultTTL)
		return primitive.NilObjectID, false, nil
	case err != nil:
		return primitive.NilObjectID, false, err
	}

	k.cache.Set(key, id, ttlcache.DefaultTTL)
	return id, true, nil
}

// Forget drops key, so a deleted project stops collecting immediately.
func (k *KeyCache) Forget(key string) {
	k.cache.Delete(key)
}

// Len reports how many keys are cached.
func (k *KeyCache) Len() int {
	return k.cache.Len()
}

// Stop halts the expiry loop.
func (k *KeyCache) Stop() {
	k.cache.Stop()
}
