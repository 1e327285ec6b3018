package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"rohatours/internal/domain"
)

// Creator is the slice of BookingService the importer drives.
type Creator interface {
	Create(ctx context.Context, raw map[string]any) (string, error)
}

// ImportReport summarises one import run.
type ImportReport struct {
	Created  int
	Rejected int
	Failed   int
}

// ImportService replays raw booking records through Create with bounded
// concurrency and a request rate cap, so a bulk load cannot starve the
// database the live site writes to.
type ImportService struct {
	creator Creator
	workers int64
	limiter *rate.Limiter
}

func NewImportService(c Creator, workers, rps int) *ImportService {
	if workers <= 0 {
		workers = 1
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &ImportService{creator: c, workers: int64(workers), limiter: lim}
}

// Import creates every record. Invalid records are counted and skipped; a
// configuration error aborts the run since no later record can succeed.
func (s *ImportService) Import(parent context.Context, records []map[string]any) (ImportReport, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	var created, rejected, failed atomic.Int64
	var fatalOnce sync.Once
	var fatal error

	for i, raw := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(i int, raw map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			id, err := s.creator.Create(ctx, raw)
			switch {
			case err == nil:
				created.Add(1)
				log.Debug().Int("record", i).Str("id", id).Msg("import ok")
			case errors.Is(err, domain.ErrValidation):
				rejected.Add(1)
				log.Warn().Int("record", i).Err(err).Msg("import rejected")
			case errors.Is(err, domain.ErrConfiguration):
				fatalOnce.Do(func() { fatal = err; cancel() })
			default:
				failed.Add(1)
				log.Warn().Int("record", i).Err(err).Msg("import failed")
			}
		}(i, raw)
	}

	wg.Wait()
	rep := ImportReport{Created: int(created.Load()), Rejected: int(rejected.Load()), Failed: int(failed.Load())}
	if fatal != nil {
		return rep, fatal
	}
	if err := parent.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}
