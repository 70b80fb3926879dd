package form

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/catalog/internal/clock"
	"github.com/dyluth/catalog/internal/logging"
	"github.com/dyluth/catalog/pkg/catalog"
)

// Deps are the collaborators of a Session. Service and Notifier are required.
type Deps struct {
	Service   RecordService
	Notifier  Notifier
	Navigator Navigator
	Clock     clock.Clock
	Location  *time.Location
	Logger    logging.Logger

	// ResetDelay defaults to DefaultResetDelay.
	ResetDelay time.Duration
	// CheckDebounce delays the uniqueness check after identifier changes.
	// Zero checks on every change.
	CheckDebounce time.Duration
}

// Session is one form screen: its state, the uniqueness checker and the
// submission controller wired together.
type Session struct {
	state      *State
	checker    *UniquenessChecker
	controller *Controller
	debouncer  *Debouncer
	logger     logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession creates a session. A nil record starts a create session; a non-nil
// record starts an edit session populated from it with the identifier locked.
func NewSession(deps Deps, record *catalog.Product) (*Session, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("record service is required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.ResetDelay <= 0 {
		deps.ResetDelay = DefaultResetDelay
	}

	mode := ModeCreate
	if record != nil {
		if record.ID == "" {
			return nil, fmt.Errorf("record to edit has no id")
		}
		mode = ModeEdit
	}

	state := NewState(mode, NewValidator(deps.Clock, deps.Location))
	if record != nil {
		state.Load(record)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		state:      state,
		checker:    NewUniquenessChecker(state, deps.Service, deps.Notifier, deps.Logger),
		controller: NewController(state, deps.Service, deps.Notifier, deps.Navigator, deps.Clock, deps.ResetDelay, deps.Logger),
		debouncer:  NewDebouncer(deps.Clock, deps.CheckDebounce),
		logger:     deps.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.logger.Debug("form session started", "mode", mode.String())
	return s, nil
}

// Mode returns the session's mode.
func (s *Session) Mode() Mode {
	return s.state.Mode()
}

// State exposes the form state for rendering.
func (s *Session) State() *State {
	return s.state
}

// Change applies user input to a field. In create mode an identifier change
// schedules a uniqueness check through the debouncer.
func (s *Session) Change(field Field, value string) error {
	if err := s.state.Set(field, value); err != nil {
		return err
	}
	if field == FieldID && s.state.Mode() == ModeCreate {
		s.debouncer.Trigger(func() { s.checker.Check(s.ctx) })
	}
	return nil
}

// Blur marks a field as touched. Leaving the identifier runs any pending
// uniqueness check immediately.
func (s *Session) Blur(field Field) {
	s.state.Touch(field)
	if field == FieldID && s.state.Mode() == ModeCreate {
		s.debouncer.Cancel()
		s.checker.Check(s.ctx)
	}
}

// CheckID verifies the current identifier now. See UniquenessChecker.Check.
func (s *Session) CheckID() (done <-chan struct{}, started bool) {
	s.debouncer.Cancel()
	return s.checker.Check(s.ctx)
}

// Submit dispatches the form. See Controller.Submit.
func (s *Session) Submit(ctx context.Context) (*Submission, error) {
	return s.controller.Submit(ctx)
}

// Submitting reports whether a submission is in flight.
func (s *Session) Submitting() bool {
	return s.controller.Submitting()
}

// Reset clears the form immediately.
func (s *Session) Reset() {
	s.state.Reset()
}

// IsFieldInvalid reports whether a field is touched and has a violation.
func (s *Session) IsFieldInvalid(field Field) bool {
	return s.state.IsFieldInvalid(field)
}

// ErrorMessage returns the message for a field's violation, or "".
func (s *Session) ErrorMessage(field Field) string {
	return s.state.ErrorMessage(field)
}

// Snapshot returns a copy of the form state.
func (s *Session) Snapshot() Snapshot {
	return s.state.Snapshot()
}

// Close ends the session: pending reset and debounce timers are cancelled and
// in-flight uniqueness checks are abandoned.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.controller.Close()
	s.cancel()
	s.checker.Close()
	s.logger.Debug("form session closed")
}
