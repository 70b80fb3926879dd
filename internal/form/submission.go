package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/internal/metrics"
	"github.com/dyluth/catalog/pkg/catalog"
)

// ListingPath is where an edit session navigates after a successful update.
const ListingPath = "/products"

// DefaultResetDelay is the pause between a successful create and the form reset.
const DefaultResetDelay = 2000 * time.Millisecond

// RecordService is the remote capability the form submits to.
// *catalog.Client satisfies it.
type RecordService interface {
	ExistenceChecker
	CreateProduct(ctx context.Context, p *catalog.Product) error
	UpdateProduct(ctx context.Context, id string, patch *catalog.ProductPatch) error
}

// Notifier publishes user-facing notifications. *notify.Queue satisfies it.
type Notifier interface {
	Success(message string, ttl ...time.Duration) uint64
	Error(message string, ttl ...time.Duration) uint64
}

// Navigator moves the user to another screen.
type Navigator interface {
	GoTo(path string)
}

// Status is the lifecycle stage of a submission.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Submission tracks one dispatched create or update.
type Submission struct {
	mode Mode
	done chan struct{}

	mu     sync.Mutex
	status Status
	err    error
}

func newSubmission(mode Mode) *Submission {
	return &Submission{mode: mode, done: make(chan struct{}), status: StatusSubmitting}
}

// Mode returns the mode the submission was made in.
func (s *Submission) Mode() Mode {
	return s.mode
}

// Done is closed when the submission has resolved and the controller is idle again.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Status returns the current status.
func (s *Submission) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the failure of a resolved submission, or nil.
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the submission resolves or ctx is done.
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Submission) finish(status Status, err error) {
	s.mu.Lock()
	s.status = status
	s.err = err
	s.mu.Unlock()
}

// Controller guards and dispatches submissions for one State.
type Controller struct {
	state      *State
	service    RecordService
	notifier   Notifier
	navigator  Navigator
	clock      clock.Clock
	resetDelay time.Duration
	logger     logging.Logger

	mu         sync.Mutex
	submitting bool
	resetTimer clock.Timer
	closed     bool
}

// NewController creates a controller. A nil navigator discards navigation.
func NewController(state *State, service RecordService, notifier Notifier, navigator Navigator,
	c clock.Clock, resetDelay time.Duration, logger logging.Logger) *Controller {
	if navigator == nil {
		navigator = nopNavigator{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		state:      state,
		service:    service,
		notifier:   notifier,
		navigator:  navigator,
		clock:      c,
		resetDelay: resetDelay,
		logger:     logger,
	}
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit dispatches the current values to the record service.
// It returns ErrSubmitInFlight while a submission is pending, and ErrFormInvalid
// (after touching every field) when any field has a violation. In both cases
// no remote call is made.
func (c *Controller) Submit(ctx context.Context) (*Submission, error) {
	c.mu.Lock()
	mode := c.state.Mode()
	if c.submitting {
		c.mu.Unlock()
		metrics.SubmitAttempts.WithLabelValues(mode.String(), "in_flight").Inc()
		return nil, ErrSubmitInFlight
	}
	record, ok := c.state.submittable()
	if !ok {
		c.mu.Unlock()
		metrics.SubmitAttempts.WithLabelValues(mode.String(), "invalid").Inc()
		c.logger.Debug("submit rejected: form invalid", "mode", mode.String())
		return nil, ErrFormInvalid
	}
	c.submitting = true
	c.mu.Unlock()

	metrics.SubmitAttempts.WithLabelValues(mode.String(), "accepted").Inc()

	sub := newSubmission(mode)
	c.logger.Info("submitting product", "mode", mode.String(), "id", record.ID)

	go c.dispatch(ctx, sub, record)
	return sub, nil
}

func (c *Controller) dispatch(ctx context.Context, sub *Submission, record *catalog.Product) {
	mode := sub.mode
	start := time.Now()

	var err error
	if mode == ModeEdit {
		err = c.service.UpdateProduct(ctx, record.ID, patchOf(record))
	} else {
		err = c.service.CreateProduct(ctx, record)
	}
	metrics.SubmitDuration.WithLabelValues(mode.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		rerr := &RemoteError{Operation: mode.action(), Err: err}
		c.logger.Warn("submission failed", "mode", mode.String(), "id", record.ID, "error", err)
		metrics.SubmitOutcomes.WithLabelValues(mode.String(), "failed").Inc()

		c.release()
		c.notifier.Error(fmt.Sprintf("Failed to %s product: %v", mode.action(), err))
		c.complete(sub, StatusFailed, rerr)
		return
	}

	metrics.SubmitOutcomes.WithLabelValues(mode.String(), "succeeded").Inc()
	c.logger.Info("submission succeeded", "mode", mode.String(), "id", record.ID)

	c.release()
	if mode == ModeEdit {
		c.notifier.Success("Product updated successfully")
		c.navigator.GoTo(ListingPath)
	} else {
		c.scheduleReset()
		c.notifier.Success("Product created successfully")
	}
	c.complete(sub, StatusSucceeded, nil)
}

// release clears the in-flight flag. It runs on every path before the outcome
// is announced, so a resubmit is possible as soon as the user sees it.
func (c *Controller) release() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

// complete resolves sub once the outcome has been announced.
func (c *Controller) complete(sub *Submission, status Status, err error) {
	sub.finish(status, err)
	close(sub.done)
}

func (c *Controller) scheduleReset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.resetTimer != nil {
		c.resetTimer.Stop()
	}
	c.resetTimer = c.clock.AfterFunc(c.resetDelay, func() {
		c.state.Reset()
		c.logger.Debug("form reset after create")
	})
}

// Close cancels a pending reset.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

// patchOf builds an update carrying every editable field.
func patchOf(p *catalog.Product) *catalog.ProductPatch {
	return &catalog.ProductPatch{
		Name:         &p.Name,
		Description:  &p.Description,
		Logo:         &p.Logo,
		DateRelease:  &p.DateRelease,
		DateRevision: &p.DateRevision,
	}
}

type nopNavigator struct{}

func (nopNavigator) GoTo(string) {}
