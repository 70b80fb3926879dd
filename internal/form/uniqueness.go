package form

import (
	"context"
	"sync"

	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/metrics"
)

// ExistenceChecker reports whether an identifier is already registered.
type ExistenceChecker interface {
	ProductExists(ctx context.Context, id string) (bool, error)
}

// UniquenessChecker verifies the identifier against the record service and
// merges the result into the state. Overlapping checks are allowed; among
// results for the current identifier the last one to resolve wins.
type UniquenessChecker struct {
	state    *State
	service  ExistenceChecker
	notifier Notifier
	logger   logging.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewUniquenessChecker creates a checker bound to state.
func NewUniquenessChecker(state *State, service ExistenceChecker, notifier Notifier, logger logging.Logger) *UniquenessChecker {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UniquenessChecker{
		state:    state,
		service:  service,
		notifier: notifier,
		logger:   logger,
	}
}

// Check starts a verification of the current identifier unless the state is in
// edit mode or the identifier already fails the local rules.
// The returned channel is closed once the result has been applied; started is
// false when no check was needed or the checker is closed (the channel is then
// already closed).
func (u *UniquenessChecker) Check(ctx context.Context) (done <-chan struct{}, started bool) {
	ch := make(chan struct{})

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed || u.state.Mode() != ModeCreate {
		close(ch)
		return ch, false
	}
	id, invalid := u.state.identifier()
	if invalid {
		metrics.UniquenessChecks.WithLabelValues("skipped").Inc()
		close(ch)
		return ch, false
	}

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer close(ch)
		u.run(ctx, id)
	}()
	return ch, true
}

func (u *UniquenessChecker) run(ctx context.Context, id string) {
	exists, err := u.service.ProductExists(ctx, id)
	if err != nil {
		metrics.UniquenessChecks.WithLabelValues("failed").Inc()
		if ctx.Err() != nil {
			// Session closed while the check was in flight
			return
		}
		u.logger.Warn("identifier verification failed", "id", id, "error", err)
		u.notifier.Error("Failed to verify ID")
		return
	}

	if !u.state.applyUniqueness(id, exists) {
		metrics.UniquenessChecks.WithLabelValues("stale").Inc()
		u.logger.Debug("identifier changed during verification", "id", id)
		return
	}
	if exists {
		metrics.UniquenessChecks.WithLabelValues("exists").Inc()
	} else {
		metrics.UniquenessChecks.WithLabelValues("available").Inc()
	}
	u.logger.Debug("identifier verified", "id", id, "exists", exists)
}

// Close refuses further checks and blocks until every started check has resolved.
func (u *UniquenessChecker) Close() {
	u.mu.Lock()
	u.closed = true
	u.mu.Unlock()
	u.wg.Wait()
}
