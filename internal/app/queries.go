package app

import (
	"context"
	"fmt"

	"rohatours/internal/domain"
)

// List returns the most recent bookings, newest first, never more than the
// configured limit. An empty store yields an empty, non-nil slice.
func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	// Connection first; a warm shared cache must not mask a broken store config.
	if err := s.repo.Connect(ctx); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		var gen int64
		if _, err := s.cache.Get(ctx, genKey, &gen); err != nil {
			// Unknown generation: skip the cache entirely for this call.
			return s.listFromStore(ctx, "")
		}
		key = s.listKey(gen)
		var cached []domain.Booking
		if ok, _ := s.cache.Get(ctx, key, &cached); ok && cached != nil {
			return cached, nil
		}
	}

	return s.listFromStore(ctx, key)
}

// listFromStore reads the store and, when key is set, caches the result.
func (s *BookingService) listFromStore(ctx context.Context, key string) ([]domain.Booking, error) {
	rs, err := s.repo.ListRecent(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if rs == nil {
		rs = []domain.Booking{}
	}
	if len(rs) > s.listLimit {
		rs = rs[:s.listLimit]
	}

	// copy to avoid aliasing the repo's backing array
	out := make([]domain.Booking, len(rs))
	copy(out, rs)

	if s.cache != nil && key != "" && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}
