package supervisor_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lorehash/boorudex/internal/supervisor"
)

type flakyWorker struct {
	runs    int32
	failFor int32
}

func (f *flakyWorker) Run(ctx context.Context) error {
	n := atomic.AddInt32(&f.runs, 1)
	if n <= f.failFor {
		return errors.New("transient failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestSupervisor_RestartsFailingWorker(t *testing.T) {
	// supervisor.New only accepts *ingest.Discoverer/*ingest.Fetcher, so
	// this test does not run a Supervisor. It drives flakyWorker through
	// a local restart loop with the same stop condition as superviseOne
	// and confirms the Runnable contract that loop relies on: failed runs
	// return an error, and the run after them blocks until ctx ends.
	var w flakyWorker
	w.failFor = 2

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for {
			err := w.Run(ctx)
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				close(done)
				return
			}
		}
	}()

	<-done
	assert.GreaterOrEqual(t, atomic.LoadInt32(&w.runs), int32(3))
}

var _ supervisor.Runnable = (*flakyWorker)(nil)
