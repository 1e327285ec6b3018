package domain

import "context"

type BookingRepository interface {
	// Connect makes sure a store connection exists without touching data.
	Connect(ctx context.Context) error

	// Write path
	Insert(ctx context.Context, b Booking) (string, error)

	// Read path, newest first, at most limit rows.
	ListRecent(ctx context.Context, limit int) ([]Booking, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// Incr bumps an integer counter, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event BookingEvent) error
}
