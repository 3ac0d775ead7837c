// Package supervisor runs the Discoverer and Fetcher side by side
// against one shared KV client, restarting either if it returns an
// error other than context cancellation — the Go-idiomatic
// counterpart to the reference indexer's multiprocessing.Process
// supervision in its main(), expressed as goroutines rather than OS
// processes.
package supervisor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lorehash/boorudex/internal/ingest"
)

// Runnable is anything with a cancellable Run loop — satisfied by both
// *ingest.Discoverer and *ingest.Fetcher.
type Runnable interface {
	Run(ctx context.Context) error
}

// Supervisor restarts each of its workers with backoff whenever they
// exit with a non-cancellation error.
type Supervisor struct {
	workers    map[string]Runnable
	backoff    time.Duration
	maxBackoff time.Duration
	logger     *logrus.Logger
}

// New builds a Supervisor over the discoverer and fetcher.
func New(discoverer *ingest.Discoverer, fetcher *ingest.Fetcher, logger *logrus.Logger) *Supervisor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Supervisor{
		workers: map[string]Runnable{
			"discoverer": discoverer,
			"fetcher":    fetcher,
		},
		backoff:    time.Second,
		maxBackoff: time.Minute,
		logger:     logger,
	}
}

// Run starts every worker and blocks until ctx is cancelled, at which
// point it waits for all of them to exit.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for name, worker := range s.workers {
		wg.Add(1)
		go func(name string, worker Runnable) {
			defer wg.Done()
			s.superviseOne(ctx, name, worker)
		}(name, worker)
	}
	wg.Wait()
}

func (s *Supervisor) superviseOne(ctx context.Context, name string, worker Runnable) {
	delay := s.backoff

	for {
		err := worker.Run(ctx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.WithField("worker", name).Info("worker stopped")
			return
		}

		s.logger.WithError(err).WithField("worker", name).Error("worker crashed, restarting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.maxBackoff {
			delay = s.maxBackoff
		}
	}
}
