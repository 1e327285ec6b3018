package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"rohatours/internal/app"
	"rohatours/internal/domain"
)

// countingCreator tracks peak concurrency of Create calls.
type countingCreator struct {
	mu      sync.Mutex
	active  int
	peak    int
	calls   atomic.Int64
	errFor  func(raw map[string]any) error
	holdFor time.Duration
}

func (c *countingCreator) Create(ctx context.Context, raw map[string]any) (string, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.active++
	if c.active > c.peak {
		c.peak = c.active
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}()
	time.Sleep(c.holdFor)
	if c.errFor != nil {
		if err := c.errFor(raw); err != nil {
			return "", err
		}
	}
	return fmt.Sprint(raw["customerName"]), nil
}

func records(n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = valid(fmt.Sprintf("guest%02d", i))
	}
	return out
}

func TestImport_CountsOutcomes(t *testing.T) {
	c := &countingCreator{errFor: func(raw map[string]any) error {
		switch raw["customerName"] {
		case "guest01", "guest02":
			return fmt.Errorf("%w: missing required field: customerEmail", domain.ErrValidation)
		case "guest03":
			return fmt.Errorf("%w: insert: boom", domain.ErrStorage)
		}
		return nil
	}}
	rep, err := app.NewImportService(c, 4, 0).Import(context.Background(), records(10))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep != (app.ImportReport{Created: 7, Rejected: 2, Failed: 1}) {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestImport_BoundsConcurrency(t *testing.T) {
	c := &countingCreator{holdFor: 5 * time.Millisecond}
	rep, err := app.NewImportService(c, 3, 0).Import(context.Background(), records(20))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.Created != 20 {
		t.Fatalf("expected 20 created, got %+v", rep)
	}
	if c.peak > 3 {
		t.Fatalf("peak concurrency %d exceeds 3 workers", c.peak)
	}
}

func TestImport_ConfigurationErrorAborts(t *testing.T) {
	cfgErr := fmt.Errorf("%w: MONGODB_URI is not set", domain.ErrConfiguration)
	c := &countingCreator{holdFor: time.Millisecond, errFor: func(map[string]any) error { return cfgErr }}
	_, err := app.NewImportService(c, 1, 0).Import(context.Background(), records(50))
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if n := c.calls.Load(); n >= 50 {
		t.Fatalf("expected the run to stop early, got %d calls", n)
	}
}

func TestImport_WithRealService(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	rep, err := app.NewImportService(svc, 4, 1000).Import(context.Background(), records(12))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rep.Created != 12 || repo.count() != 12 {
		t.Fatalf("expected 12 stored, report %+v, stored %d", rep, repo.count())
	}
}
