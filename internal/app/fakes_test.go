package app_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"rohatours/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu         sync.Mutex
	seq        int
	rows       []storedBooking
	connectErr error
	insertErr  error
	listErr    error
	connects   int
}

type storedBooking struct {
	seq int
	b   domain.Booking
}

func (f *fakeRepo) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	return f.connectErr
}

func (f *fakeRepo) Insert(ctx context.Context, b domain.Booking) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return "", f.connectErr
	}
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.seq++
	b.ID = fmt.Sprintf("id-%04d", f.seq)
	f.rows = append(f.rows, storedBooking{seq: f.seq, b: b})
	return b.ID, nil
}

func (f *fakeRepo) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	rows := append([]storedBooking(nil), f.rows...)
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].b.CreatedAt.Equal(rows[j].b.CreatedAt) {
			return rows[i].b.CreatedAt.After(rows[j].b.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	var out []domain.Booking
	for i := 0; i < len(rows) && i < limit; i++ {
		out = append(out, rows[i].b)
	}
	return out, nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	dels  []string
	incrs []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *[]domain.Booking:
		*d = v.([]domain.Booking)
	case *int64:
		*d = v.(int64)
	default:
		return false, errors.New("unsupported type")
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	n, _ := c.store[key].(int64)
	n++
	c.store[key] = n
	c.incrs = append(c.incrs, key)
	return n, nil
}

// gatedRepo parks the first ListRecent after it has read the store, so a
// test can interleave a create between the read and the cache write.
type gatedRepo struct {
	*fakeRepo
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{fakeRepo: &fakeRepo{}, read: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedRepo) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	rows, err := g.fakeRepo.ListRecent(ctx, limit)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})
	return rows, err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, key string, e domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}
