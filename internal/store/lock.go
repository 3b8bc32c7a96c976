package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tides-mcp/tides/internal/tides"
)

// lockRetryDelay is how often the file lock is retried while waiting.
const lockRetryDelay = 20 * time.Millisecond

// acquire takes the in-process semaphore and then the advisory file lock,
// waiting at most s.timeout in total. The returned func releases both.
//
// The file lock is released by the kernel if the holder dies, so a crashed
// process never wedges the store; the timeout covers a live but stuck one.
func (s *FileStore) acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	waitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	select {
	case s.sem <- struct{}{}:
	case <-waitCtx.Done():
		return nil, s.waitErr(ctx, start)
	}

	ok, err := s.flock.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil || !ok {
		<-s.sem
		if waitCtx.Err() != nil {
			return nil, s.waitErr(ctx, start)
		}
		return nil, fmt.Errorf("%w: locking %s: %v", tides.ErrStoreUnavailable, s.flock.Path(), err)
	}

	s.log.Debug("store lock acquired", "path", s.path, "waited", time.Since(start))

	return func() {
		if err := s.flock.Unlock(); err != nil {
			s.log.Warn("store unlock failed", "path", s.flock.Path(), "error", err)
		}
		<-s.sem
	}, nil
}

// waitErr distinguishes caller cancellation from our own timeout.
func (s *FileStore) waitErr(ctx context.Context, start time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for store lock: %w", err)
	}
	s.log.Warn("store lock timeout", "path", s.path, "timeout", s.timeout)
	return fmt.Errorf("%w: lock on %s not acquired within %s", tides.ErrStoreBusy, s.path, time.Since(start).Round(time.Millisecond))
}
