package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"rohatours/internal/domain"
)

// Dialer opens and verifies a client. It must honour ctx's deadline.
type Dialer func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)

// Manager hands out one shared client for the life of the process. The
// first call dials; concurrent first calls wait on that same dial; failures
// are returned but never cached.
type Manager struct {
	uri     string
	dbName  string
	timeout time.Duration
	dial    Dialer

	sf     singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
}

func NewManager(uri, dbName string, timeout time.Duration) *Manager {
	return NewManagerWithDialer(uri, dbName, timeout, Dial)
}

func NewManagerWithDialer(uri, dbName string, timeout time.Duration, dial Dialer) *Manager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Manager{uri: uri, dbName: dbName, timeout: timeout, dial: dial}
}

// Client returns the cached client, dialing on first use.
func (m *Manager) Client(ctx context.Context) (*mongo.Client, error) {
	m.mu.RLock()
	c := m.client
	m.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	if m.uri == "" {
		return nil, fmt.Errorf("%w: MONGODB_URI is not set", domain.ErrConfiguration)
	}

	// The dial is shared by every waiter, so it must not die with the
	// first caller's request.
	dialCtx := context.WithoutCancel(ctx)
	v, err, _ := m.sf.Do("connect", func() (any, error) {
		m.mu.RLock()
		existing := m.client
		m.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		start := time.Now()
		cl, err := m.dial(dialCtx, m.uri, m.timeout)
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("mongo connect failed")
			return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
		}

		m.mu.Lock()
		m.client = cl
		m.mu.Unlock()
		log.Info().Str("db", m.dbName).Dur("elapsed", time.Since(start)).Msg("mongo connected")
		return cl, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongo.Client), nil
}

// Database returns the configured database on the shared client.
func (m *Manager) Database(ctx context.Context) (*mongo.Database, error) {
	c, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Database(m.dbName), nil
}

// Close disconnects the cached client, if any. Safe to call more than once.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}

// Dial connects and pings the primary within timeout.
func Dial(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}
