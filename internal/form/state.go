package form

import (
	"fmt"
	"sync"

	"github.com/dyluth/catalog/pkg/catalog"
)

// State holds the values, violations and touched flags of one edit session.
// It is safe for concurrent use; asynchronous results are merged through it.
type State struct {
	mu        sync.Mutex
	mode      Mode
	validator *Validator

	values  Values
	errors  map[Field]Violations
	touched map[Field]bool

	// lockedID is the identifier of the record being edited.
	lockedID string
}

// Snapshot is a copy of the state for rendering.
type Snapshot struct {
	Mode    Mode
	Values  Values
	Errors  map[Field]Violations
	Touched map[Field]bool
}

// NewState creates an empty state. Required violations are computed up front
// but stay hidden until a field is touched.
func NewState(mode Mode, v *Validator) *State {
	s := &State{mode: mode, validator: v}
	s.clear()
	return s
}

// Mode returns the state's mode.
func (s *State) Mode() Mode {
	return s.mode
}

// Load populates the state from a record. In edit mode the identifier is locked.
// Dates are reduced to their calendar-date part.
func (s *State) Load(p *catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range Fields {
		s.values[f] = ValueOf(p, f)
	}
	if s.mode == ModeEdit {
		s.lockedID = p.ID
	}
	s.validateAll()
}

// Set stores a field value and re-validates it. Changing the release date also
// re-validates the revision date, whose validity depends on both.
// A change replaces the field's violations, so a stale idExists is dropped.
func (s *State) Set(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[field]; !ok {
		return fmt.Errorf("unknown field: %q", field)
	}
	if field == FieldID && s.mode == ModeEdit {
		return ErrFieldLocked
	}

	s.values[field] = value
	s.errors[field] = s.validate(field)
	if field == FieldReleaseDate {
		s.errors[FieldRevisionDate] = s.validate(FieldRevisionDate)
	}
	return nil
}

// Touch marks a field as interacted with.
func (s *State) Touch(field Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[field] = true
}

// Value returns the current value of a field.
func (s *State) Value(field Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[field]
}

// Errors returns the violations of a field.
func (s *State) Errors(field Field) Violations {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[field].clone()
}

// IsFieldInvalid reports whether a field is touched and has at least one violation.
func (s *State) IsFieldInvalid(field Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[field] && len(s.errors[field]) > 0
}

// Valid reports whether every field's violation set is empty.
func (s *State) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid()
}

// ErrorMessage returns the display message for a field's most important violation,
// or "" if the field is valid.
func (s *State) ErrorMessage(field Field) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Message(field, s.errors[field])
}

// Snapshot returns a deep copy of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Mode:    s.mode,
		Values:  s.values.clone(),
		Errors:  make(map[Field]Violations, len(s.errors)),
		Touched: make(map[Field]bool, len(s.touched)),
	}
	for f, v := range s.errors {
		snap.Errors[f] = v.clone()
	}
	for f, t := range s.touched {
		snap.Touched[f] = t
	}
	return snap
}

// Reset returns values, violations and touched flags to their initial state.
// An edit session keeps its locked identifier.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	if s.mode == ModeEdit {
		s.values[FieldID] = s.lockedID
	}
}

// identifier returns the current id and whether it has violations from the local rules.
func (s *State) identifier() (id string, locallyInvalid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[FieldID], s.errors[FieldID].Local()
}

// applyUniqueness merges a uniqueness result for id into the identifier's
// violations. A result for an identifier that is no longer current is dropped.
func (s *State) applyUniqueness(id string, exists bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[FieldID] != id {
		return false
	}
	if exists {
		s.errors[FieldID] = s.errors[FieldID].With(ViolationIDExists)
	} else {
		s.errors[FieldID] = s.errors[FieldID].Without(ViolationIDExists)
	}
	return true
}

// submittable returns the effective submitted values if every field is valid.
// Otherwise it touches every field and returns false. The check and the copy
// see the same values.
func (s *State) submittable() (*catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.valid() {
		for _, f := range Fields {
			s.touched[f] = true
		}
		return nil, false
	}
	return s.record(), true
}

// record builds the product from the current values. In edit mode the locked
// identifier is used even though its control is not editable. Caller holds s.mu.
func (s *State) record() *catalog.Product {
	id := s.values[FieldID]
	if s.mode == ModeEdit {
		id = s.lockedID
	}
	return &catalog.Product{
		ID:           id,
		Name:         s.values[FieldName],
		Description:  s.values[FieldDescription],
		Logo:         s.values[FieldLogo],
		DateRelease:  s.values[FieldReleaseDate],
		DateRevision: s.values[FieldRevisionDate],
	}
}

// valid reports whether no field has a violation. Caller holds s.mu.
func (s *State) valid() bool {
	for _, f := range Fields {
		if len(s.errors[f]) > 0 {
			return false
		}
	}
	return true
}

// clear empties the state. Caller holds s.mu.
func (s *State) clear() {
	s.values = make(Values, len(Fields))
	s.errors = make(map[Field]Violations, len(Fields))
	s.touched = make(map[Field]bool, len(Fields))
	for _, f := range Fields {
		s.values[f] = ""
	}
	s.validateAll()
}

// validateAll recomputes every field. Caller holds s.mu.
func (s *State) validateAll() {
	for _, f := range Fields {
		s.errors[f] = s.validate(f)
	}
}

// validate runs the rules for one field. The locked identifier of an edit
// session is not validated. Caller holds s.mu.
func (s *State) validate(field Field) Violations {
	if field == FieldID && s.mode == ModeEdit {
		return nil
	}
	return s.validator.Validate(field, s.values)
}
