package auth

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RevocationStore tracks tokens invalidated before their natural expiry.
// Entries evict themselves once the token would have expired anyway.
type RevocationStore struct {
	cache *gocache.Cache
}

func NewRevocationStore(tokenTTL time.Duration) *RevocationStore {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &RevocationStore{
		cache: gocache.New(tokenTTL, 10*time.Minute),
	}
}

func (s *RevocationStore) Revoke(token string) {
	s.cache.SetDefault(token, struct{}{})
}

func (s *RevocationStore) IsRevoked(token string) bool {
	_, found := s.cache.Get(token)
	return found
}
