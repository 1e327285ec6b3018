package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"rohatours/internal/adapters/observability"
	"rohatours/internal/domain"
)

const EventBookingCreated = "booking_created"

// BookingService implements the create and list operations.
// Cache and publisher are optional.
type BookingService struct {
	repo      domain.BookingRepository
	norm      *Normalizer
	cache     domain.Cache
	publisher domain.EventPublisher
	listLimit int
	cacheTTL  time.Duration
}

type Option func(*BookingService)

func WithCache(c domain.Cache, ttl time.Duration) Option {
	return func(s *BookingService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(s *BookingService) { s.publisher = p }
}

func WithListLimit(n int) Option {
	return func(s *BookingService) { s.listLimit = n }
}

func NewBookingService(r domain.BookingRepository, n *Normalizer, opts ...Option) *BookingService {
	s := &BookingService{repo: r, norm: n, listLimit: 50}
	for _, opt := range opts {
		opt(s)
	}
	if s.listLimit <= 0 || s.listLimit > 50 {
		s.listLimit = 50
	}
	return s
}

// Create validates raw and inserts one booking, returning its id.
// There is no retry: a failed insert is reported, never replayed.
func (s *BookingService) Create(ctx context.Context, raw map[string]any) (string, error) {
	// 1) Connection first, so config/connect failures win over input errors.
	if err := s.repo.Connect(ctx); err != nil {
		return "", err
	}

	// 2) Normalize; a validation error means nothing is written.
	b, err := s.norm.Normalize(raw)
	if err != nil {
		return "", err
	}

	// 3) Insert.
	id, err := s.repo.Insert(ctx, b)
	if err != nil {
		return "", fmt.Errorf("create booking: %w", err)
	}
	b.ID = id
	observability.ObserveBookingCreated()
	log.Info().Str("id", id).Str("package", b.Package).Int("travelers", b.TravelerCount).Msg("booking created")

	// 4) Side effects are best-effort; the booking already exists.
	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, genKey); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("list cache invalidation failed")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, id, domain.NewBookingEvent(EventBookingCreated, b)); err != nil {
			log.Warn().Err(err).Str("id", id).Msg("publish booking_created failed")
		}
	}
	return id, nil
}

// genKey counts creates. Cached lists are keyed by the generation read
// before the store query, so a list computed before a create can never be
// served after it.
const genKey = "bookings:gen"

func (s *BookingService) listKey(gen int64) string {
	return fmt.Sprintf("bookings:recent:%d:%d", s.listLimit, gen)
}
